package accounts

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"villapik/db"
	"villapik/models"
	"villapik/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetConnectedAccounts returns the linked notification channels for the
// current admin.
func GetConnectedAccounts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user)
	if err != nil && err != mongo.ErrNoDocuments {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	accounts := user.ConnectedAccounts
	if accounts == nil {
		accounts = map[string]models.ConnectedAccount{}
	}

	utils.RespondWithJSON(w, http.StatusOK, accounts)
}

// ConnectGoogle persists a Google account record for the current admin.
// The credential link itself is established by the hosted auth provider on
// the client; this endpoint caches the resulting profile. Re-linking an
// already linked account simply overwrites the record, which doubles as
// the graceful recovery path for "already linked elsewhere".
func ConnectGoogle(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if input.DisplayName == "" {
		input.DisplayName = "Unknown"
	}

	account := models.ConnectedAccount{
		DisplayName: input.DisplayName,
		PhotoURL:    input.PhotoURL,
		ConnectedAt: time.Now().Format(time.RFC3339),
	}

	if err := saveConnectedAccount(ctx, userID, "google", account); err != nil {
		http.Error(w, "Failed to save account", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "google": account})
}

func DisconnectGoogle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	disconnect(w, r, "google")
}

func DisconnectLine(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	disconnect(w, r, "line")
}

func disconnect(w http.ResponseWriter, r *http.Request, provider string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	update := bson.M{"$unset": bson.M{"connectedAccounts." + provider: ""}}
	if _, err := db.UserCollection.UpdateOne(ctx, bson.M{"userid": userID}, update); err != nil {
		http.Error(w, "Failed to disconnect account", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}

func saveConnectedAccount(ctx context.Context, userID, provider string, account models.ConnectedAccount) error {
	update := bson.M{"$set": bson.M{"connectedAccounts." + provider: account}}
	_, err := db.UserCollection.UpdateOne(ctx, bson.M{"userid": userID}, update)
	return err
}
