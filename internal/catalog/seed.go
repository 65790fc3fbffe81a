package catalog

import "time"

var seedTime = time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)

// SeedProducts is the demo product set used by the in-memory store.
func SeedProducts() []Product {
	products := []Product{
		{ID: "1", Name: "Baby Romper Set", Category: "Baby Clothing", Price: 1500, Stock: 25, ImageURL: "/images/products/romper.jpg", Status: StatusActive},
		{ID: "2", Name: "Wooden Building Blocks", Category: "Toys", Price: 2200, Stock: 40, ImageURL: "/images/products/blocks.jpg", Status: StatusActive},
		{ID: "3", Name: "Kids Rain Boots", Category: "Shoes", Price: 1800, Stock: 15, ImageURL: "/images/products/boots.jpg", Status: StatusActive},
		{ID: "4", Name: "Picture Story Book", Category: "Books", Price: 650, Stock: 60, ImageURL: "/images/products/story-book.jpg", Status: StatusActive},
		{ID: "5", Name: "Plush Teddy Bear", Category: "Toys", Price: 1200, Stock: 0, ImageURL: "/images/products/teddy.jpg", Status: StatusInactive},
		{ID: "6", Name: "Toddler Denim Overalls", Category: "Kids Clothing", Price: 2400, Stock: 12, ImageURL: "/images/products/overalls.jpg", Status: StatusActive},
		{ID: "7", Name: "Baby Feeding Bottle", Category: "Baby Care", Price: 850, Stock: 80, ImageURL: "/images/products/bottle.jpg", Status: StatusActive},
		{ID: "8", Name: "Alphabet Puzzle", Category: "Toys", Price: 950, Stock: 30, ImageURL: "/images/products/puzzle.jpg", Status: StatusDraft},
		{ID: "9", Name: "School Backpack", Category: "Accessories", Price: 2100, Stock: 18, ImageURL: "/images/products/backpack.jpg", Status: StatusActive},
		{ID: "10", Name: "Soft Cotton Blanket", Category: "Baby Care", Price: 1650, Stock: 22, ImageURL: "/images/products/blanket.jpg", Status: StatusActive},
		{ID: "11", Name: "Girls Party Dress", Category: "Kids Clothing", Price: 3200, Stock: 9, ImageURL: "/images/products/dress.jpg", Status: StatusActive},
		{ID: "12", Name: "Remote Control Car", Category: "Toys", Price: 4500, Stock: 6, ImageURL: "/images/products/rc-car.jpg", Status: StatusActive},
	}
	for i := range products {
		products[i].CreatedAt = seedTime.Add(time.Duration(i) * time.Hour)
		products[i].UpdatedAt = products[i].CreatedAt
	}
	return products
}

// SeedCategories is the demo category set used by the in-memory store.
func SeedCategories() []Category {
	categories := []Category{
		{ID: "1", Name: "Baby Clothing", Slug: "baby-clothing", Description: "Soft clothes for newborns and infants", ImageURL: "/images/categories/baby-clothing.jpg", ProductCount: 1, Status: StatusActive},
		{ID: "2", Name: "Kids Clothing", Slug: "kids-clothing", Description: "Everyday and party wear for kids", ImageURL: "/images/categories/kids-clothing.jpg", ProductCount: 2, Status: StatusActive},
		{ID: "3", Name: "Toys", Slug: "toys", Description: "Educational and fun toys", ImageURL: "/images/categories/toys.jpg", ProductCount: 4, Status: StatusActive},
		{ID: "4", Name: "Shoes", Slug: "shoes", Description: "Footwear for little feet", ImageURL: "/images/categories/shoes.jpg", ProductCount: 1, Status: StatusActive},
		{ID: "5", Name: "Books", Slug: "books", Description: "Story and activity books", ImageURL: "/images/categories/books.jpg", ProductCount: 1, Status: StatusActive},
		{ID: "6", Name: "Baby Care", Slug: "baby-care", Description: "Feeding, bathing and bedtime essentials", ImageURL: "/images/categories/baby-care.jpg", ProductCount: 2, Status: StatusActive},
		{ID: "7", Name: "Accessories", Slug: "accessories", Description: "Bags, hats and more", ImageURL: "/images/categories/accessories.jpg", ProductCount: 1, Status: StatusInactive},
	}
	for i := range categories {
		categories[i].CreatedAt = seedTime
	}
	return categories
}

// SeedOrders is the demo order set used by the in-memory store.
func SeedOrders() []Order {
	day := 24 * time.Hour
	return []Order{
		{ID: "1", UserName: "Jane Wanjiku", CreatedAt: seedTime, Status: OrderDelivered, Total: 3700, Items: 2},
		{ID: "2", UserName: "Peter Otieno", CreatedAt: seedTime.Add(1 * day), Status: OrderProcessing, Total: 2200, Items: 1},
		{ID: "3", UserName: "Mary Achieng", CreatedAt: seedTime.Add(2 * day), Status: OrderPending, Total: 5400, Items: 3},
		{ID: "4", UserName: "John Kamau", CreatedAt: seedTime.Add(3 * day), Status: OrderCancelled, Total: 1200, Items: 1},
		{ID: "5", UserName: "Grace Njeri", CreatedAt: seedTime.Add(4 * day), Status: OrderDelivered, Total: 6850, Items: 4},
		{ID: "6", UserName: "Jane Wanjiku", CreatedAt: seedTime.Add(5 * day), Status: OrderPending, Total: 950, Items: 1},
		{ID: "7", UserName: "David Mwangi", CreatedAt: seedTime.Add(6 * day), Status: OrderProcessing, Total: 4500, Items: 1},
		{ID: "8", UserName: "Grace Njeri", CreatedAt: seedTime.Add(7 * day), Status: OrderDelivered, Total: 2500, Items: 2},
	}
}

// SeedCustomers is the demo customer set used by the in-memory store.
func SeedCustomers() []Customer {
	return []Customer{
		{ID: "1", Name: "Jane Wanjiku", Email: "jane.wanjiku@example.com", Orders: 2, TotalSpent: 4650},
		{ID: "2", Name: "Peter Otieno", Email: "peter.otieno@example.com", Orders: 1, TotalSpent: 2200},
		{ID: "3", Name: "Mary Achieng", Email: "mary.achieng@example.com", Orders: 1, TotalSpent: 5400},
		{ID: "4", Name: "John Kamau", Email: "jkamau@example.com", Orders: 1, TotalSpent: 1200},
		{ID: "5", Name: "Grace Njeri", Email: "grace.njeri@example.com", Orders: 2, TotalSpent: 9350},
		{ID: "6", Name: "David Mwangi", Email: "dmwangi@example.com", Orders: 1, TotalSpent: 4500},
	}
}
