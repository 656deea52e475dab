// Command seed populates the Firestore catalog with a deterministic set of
// demo products and reviews so a fresh project has something to browse.
//
// Run: FIRESTORE_PROJECT=remart-dev go run ./cmd/seed
package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/tausif1337/remart/internal/domain"
)

const productsPerCategory = 25

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// deterministicID produces a stable document ID from a namespace and index so
// re-runs overwrite the same documents instead of duplicating them.
func deterministicID(namespace string, index int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", namespace, index)))
	return fmt.Sprintf("%x", h[:10])
}

type categoryDef struct {
	Name  string
	Nouns []string
	Min   float64
	Max   float64
}

var categories = []categoryDef{
	{"Electronics", []string{"Headphones", "Speaker", "Power Bank", "Smartwatch", "Earbuds", "Webcam"}, 15, 450},
	{"Home & Kitchen", []string{"Blender", "Kettle", "Mug Set", "Knife Block", "Air Fryer", "Toaster"}, 10, 220},
	{"Fashion", []string{"Jacket", "Sneakers", "Backpack", "Scarf", "Sunglasses", "Belt"}, 8, 180},
	{"Books", []string{"Novel", "Cookbook", "Atlas", "Biography", "Field Guide", "Anthology"}, 5, 60},
	{"Sports", []string{"Yoga Mat", "Dumbbell Set", "Water Bottle", "Jump Rope", "Resistance Bands", "Football"}, 6, 150},
}

var adjectives = []string{"Classic", "Premium", "Compact", "Wireless", "Everyday", "Pro", "Essential", "Deluxe"}

var reviewComments = []string{
	"Exactly as described, very happy with it.",
	"Good value for the price.",
	"Quality could be better but it does the job.",
	"Arrived quickly and works great.",
	"Would buy again.",
}

func buildProduct(cat categoryDef, index int, rng *rand.Rand) domain.Product {
	noun := cat.Nouns[index%len(cat.Nouns)]
	adj := adjectives[rng.Intn(len(adjectives))]
	price := cat.Min + rng.Float64()*(cat.Max-cat.Min)

	return domain.Product{
		Name:        fmt.Sprintf("%s %s %d", adj, noun, index+1),
		Price:       float64(int(price*100)) / 100,
		Category:    cat.Name,
		Image:       fmt.Sprintf("https://cdn.remart.example/products/%s.jpg", deterministicID(cat.Name, index)),
		Rating:      float64(30+rng.Intn(21)) / 10,
		Description: fmt.Sprintf("A %s %s for everyday use.", adj, noun),
		Specifications: []domain.Specification{
			{Label: "Brand", Value: "ReMart"},
			{Label: "Warranty", Value: "1 year"},
		},
		Stock: rng.Intn(50),
	}
}

func run() error {
	project := getEnv("FIRESTORE_PROJECT", "remart-dev")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := firestore.NewClient(ctx, project)
	if err != nil {
		return fmt.Errorf("connect to firestore: %w", err)
	}
	defer client.Close()

	// Fixed seed keeps prices and ratings stable across runs.
	rng := rand.New(rand.NewSource(1337))

	bw := client.BulkWriter(ctx)
	total := 0
	for _, cat := range categories {
		for i := 0; i < productsPerCategory; i++ {
			product := buildProduct(cat, i, rng)
			id := deterministicID(cat.Name, i)

			if _, err := bw.Set(client.Collection("products").Doc(id), product); err != nil {
				return fmt.Errorf("queue product %s: %w", id, err)
			}
			total++

			// A couple of seed reviews on every fifth product.
			if i%5 != 0 {
				continue
			}
			for r := 0; r < 2; r++ {
				review := domain.Review{
					ProductID: id,
					UserName:  fmt.Sprintf("Demo Shopper %d", r+1),
					Rating:    float64(3 + rng.Intn(3)),
					Comment:   reviewComments[rng.Intn(len(reviewComments))],
					Date:      time.Now().AddDate(0, 0, -rng.Intn(90)),
				}
				if _, err := bw.Set(client.Collection("reviews").NewDoc(), review); err != nil {
					return fmt.Errorf("queue review for %s: %w", id, err)
				}
			}
		}
	}
	bw.End()

	log.Printf("seeded %d products across %d categories into project %s", total, len(categories), project)
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
