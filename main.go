package main

import "github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/cmd"

func main() {
	cmd.Execute()
}
