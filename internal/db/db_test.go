package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/config"
)

func TestEmptyConnectionStrings(t *testing.T) {
	_, err := OpenPostgres(context.Background(), config.PostgresConfig{})
	assert.ErrorContains(t, err, "dsn is empty")

	_, _, err = OpenMongo(context.Background(), config.MongoConfig{})
	assert.ErrorContains(t, err, "uri is empty")
}
