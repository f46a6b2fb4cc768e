package residences

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"villapik/db"
	"villapik/globals"
	"villapik/models"
	"villapik/mq"
	"villapik/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UpdateResidence overwrites the mutable fields of a listing with the
// submitted payload, mirroring the admin edit form.
func UpdateResidence(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := ps.ByName("residenceid")

	var input models.Residence
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if input.Name == "" || input.Price == "" || input.Location == "" {
		http.Error(w, "Name, price and location are required", http.StatusBadRequest)
		return
	}

	update := bson.M{"$set": bson.M{
		"name":        input.Name,
		"description": input.Description,
		"price":       input.Price,
		"image":       input.Image,
		"gallery":     input.Gallery,
		"location":    input.Location,
		"features":    input.Features,
		"amenities":   input.Amenities,
		"mapIframe":   input.MapIframe,
		"updated_at":  time.Now(),
	}}

	res, err := db.ResidencesCollection.UpdateOne(ctx, bson.M{"residenceid": id}, update)
	if err != nil {
		http.Error(w, "Failed to update residence", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Residence not found", http.StatusNotFound)
		return
	}

	invalidateListCache()
	go mq.Emit(globals.Ctx, "residence-updated", models.Index{EntityType: "residence", EntityId: id, Method: "PUT"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

// ToggleSold flips the sold flag on a listing.
func ToggleSold(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := ps.ByName("residenceid")

	var residence models.Residence
	err := db.ResidencesCollection.FindOne(ctx, bson.M{"residenceid": id}).Decode(&residence)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Residence not found", http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	update := bson.M{"$set": bson.M{"sold": !residence.Sold, "updated_at": time.Now()}}
	if _, err := db.ResidencesCollection.UpdateOne(ctx, bson.M{"residenceid": id}, update); err != nil {
		http.Error(w, "Failed to update residence", http.StatusInternalServerError)
		return
	}

	invalidateListCache()
	go mq.Emit(globals.Ctx, "residence-updated", models.Index{EntityType: "residence", EntityId: id, Method: "PATCH"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "sold": !residence.Sold})
}

// Swapped out in tests.
var deleteResidenceByID = func(ctx context.Context, id string) (int64, error) {
	res, err := db.ResidencesCollection.DeleteOne(ctx, bson.M{"residenceid": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteResidence removes a listing. No soft delete, no versioning.
func DeleteResidence(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := ps.ByName("residenceid")
	if id == "" {
		http.Error(w, "Missing ID", http.StatusBadRequest)
		return
	}

	deleted, err := deleteResidenceByID(ctx, id)
	if err != nil {
		http.Error(w, "Delete failed", http.StatusInternalServerError)
		return
	}
	if deleted == 0 {
		http.Error(w, "Residence not found", http.StatusNotFound)
		return
	}

	invalidateListCache()
	go mq.Emit(globals.Ctx, "residence-deleted", models.Index{EntityType: "residence", EntityId: id, Method: "DELETE"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
