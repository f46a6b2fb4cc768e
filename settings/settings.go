package settings

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The settings collection holds exactly one meaningful document.
const settingsDocID = "main"

// Defaults returns the hardcoded fallback used when the settings document
// is absent or unreadable.
func Defaults() models.SiteSettings {
	return models.SiteSettings{
		WebName: "Villa Pik",
		Address: "Phuket, Thailand",
		Email:   "pikpik@villapik.com",
		Phone:   "+66 123 456 789",
	}
}

// Fetch reads the singleton settings document, falling back to Defaults on
// any error. Callers that need the admin notification address use this.
func Fetch(ctx context.Context) models.SiteSettings {
	var s models.SiteSettings
	err := db.SettingsCollection.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&s)
	if err != nil {
		return Defaults()
	}
	if s.WebName == "" {
		s.WebName = Defaults().WebName
	}
	if s.Email == "" {
		s.Email = Defaults().Email
	}
	return s
}

// Public read: every page uses this for branding/contact display.
func GetSiteSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	utils.RespondWithJSON(w, http.StatusOK, Fetch(ctx))
}

// Admin write: full overwrite of the singleton document.
func UpdateSiteSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var s models.SiteSettings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	opts := options.Replace().SetUpsert(true)
	_, err := db.SettingsCollection.ReplaceOne(ctx, bson.M{"_id": settingsDocID}, s, opts)
	if err != nil {
		http.Error(w, "Failed to update settings", http.StatusInternalServerError)
		return
	}

	go mq.Emit(globals.Ctx, "settings-updated", models.Index{EntityType: "settings", EntityId: settingsDocID, Method: "PUT"})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "settings": s})
}
