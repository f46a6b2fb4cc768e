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
	"villapik/rdx"
	"villapik/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const listCacheKey = "residences"

func invalidateListCache() {
	rdx.RdxDel(listCacheKey)
}

// Residences
func GetResidences(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Try cache
	if cached, _ := rdx.RdxGet(listCacheKey); cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cached))
		return
	}

	cursor, err := db.ResidencesCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch residences")
		return
	}
	defer cursor.Close(ctx)

	var residences []models.Residence
	if err = cursor.All(ctx, &residences); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode residences")
		return
	}
	if residences == nil {
		residences = []models.Residence{}
	}

	data, _ := json.Marshal(residences)
	rdx.RdxSet(listCacheKey, string(data))
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func GetResidence(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := ps.ByName("residenceid")

	var residence models.Residence
	err := db.ResidencesCollection.FindOne(ctx, bson.M{"residenceid": id}).Decode(&residence)
	if err == mongo.ErrNoDocuments {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"status":  http.StatusNotFound,
			"message": "Residence not found",
		})
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, residence)
}

func CreateResidence(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var residence models.Residence
	if err := json.NewDecoder(r.Body).Decode(&residence); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if residence.Name == "" || residence.Price == "" || residence.Location == "" {
		http.Error(w, "Name, price and location are required", http.StatusBadRequest)
		return
	}

	residence.ResidenceID = "r" + utils.GenerateRandomString(12)
	residence.Sold = false
	residence.CreatedBy = utils.GetUserIDFromRequest(r)
	residence.CreatedAt = time.Now()
	residence.UpdatedAt = residence.CreatedAt

	if _, err := db.ResidencesCollection.InsertOne(ctx, residence); err != nil {
		http.Error(w, "Failed to create residence", http.StatusInternalServerError)
		return
	}

	invalidateListCache()
	go mq.Emit(globals.Ctx, "residence-created", models.Index{EntityType: "residence", EntityId: residence.ResidenceID, Method: "POST"})

	utils.RespondWithJSON(w, http.StatusCreated, residence)
}

// ResolveName returns the display name for a residence id from the live
// collection, or ("", false) when the document is missing.
func ResolveName(ctx context.Context, id string) (string, bool) {
	var result struct {
		Name string `bson:"name"`
	}
	err := db.ResidencesCollection.FindOne(ctx, bson.M{"residenceid": id}).Decode(&result)
	if err != nil || result.Name == "" {
		return "", false
	}
	return result.Name, true
}
