package residences

import (
	"context"
	"net/http"
	"time"

	"villapik/db"
	"villapik/models"
	"villapik/utils"

	"github.com/julienschmidt/httprouter"
)

// SeedData is the initial residence dataset. It is seed input only; name
// resolution always reads the live collection.
var SeedData = []models.Residence{
	{
		ResidenceID: "villa-1",
		Name:        "The Serenity Villa",
		Description: "A secluded pool villa with panoramic sea views, floor-to-ceiling glass and a private infinity edge pool.",
		Price:       "$2,450,000",
		Image:       "/static/residencepic/villa-1.jpg",
		Location:    "Kamala, Phuket",
		Features:    models.ResidenceFeatures{Beds: 4, Baths: 5, Sqft: 6200},
		Amenities:   []string{"Infinity pool", "Private gym", "Wine cellar", "Smart home"},
	},
	{
		ResidenceID: "villa-2",
		Name:        "Casa Horizon",
		Description: "Contemporary hillside residence overlooking the Andaman sea, with double-height living spaces and a rooftop terrace.",
		Price:       "$3,800,000",
		Image:       "/static/residencepic/villa-2.jpg",
		Location:    "Surin Beach, Phuket",
		Features:    models.ResidenceFeatures{Beds: 5, Baths: 6, Sqft: 8400},
		Amenities:   []string{"Rooftop terrace", "Home cinema", "Staff quarters"},
	},
	{
		ResidenceID: "villa-3",
		Name:        "The Palm Estate",
		Description: "A beachfront estate set in mature tropical gardens, steps from a private stretch of sand.",
		Price:       "$5,200,000",
		Image:       "/static/residencepic/villa-3.jpg",
		Location:    "Bang Tao, Phuket",
		Features:    models.ResidenceFeatures{Beds: 6, Baths: 7, Sqft: 11000},
		Amenities:   []string{"Beachfront", "Guest pavilion", "Tennis court", "Boat mooring"},
	},
}

// SeedResidences inserts the full seed dataset. Running it twice appends a
// second copy; there is no dedup.
func SeedResidences(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	docs := make([]interface{}, 0, len(SeedData))
	for _, res := range SeedData {
		res.Sold = false
		res.CreatedAt = now
		res.UpdatedAt = now
		docs = append(docs, res)
	}

	if _, err := db.ResidencesCollection.InsertMany(ctx, docs); err != nil {
		http.Error(w, "Failed to seed residences", http.StatusInternalServerError)
		return
	}

	invalidateListCache()

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"seeded":  len(docs),
	})
}
