package residences

import (
	"context"
	"net/http"
	"time"

	"villapik/db"
	"villapik/globals"
	"villapik/filemgr"
	"villapik/models"
	"villapik/mq"
	"villapik/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// UploadImage replaces the primary listing image.
func UploadImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	id := ps.ByName("residenceid")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	savedName, err := filemgr.SaveFormFile(r.MultipartForm, "image", filemgr.PicBanner, true)
	if err != nil {
		http.Error(w, "cannot save file", http.StatusBadRequest)
		return
	}

	imageURL := "/static/residencepic/banner/" + savedName
	update := bson.M{"$set": bson.M{"image": imageURL, "updated_at": time.Now()}}
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

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "image": imageURL})
}

// UploadGallery appends uploaded photos to the listing gallery. Files are
// saved in request order.
func UploadGallery(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	id := ps.ByName("residenceid")

	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	saved, err := filemgr.SaveFormFiles(r.MultipartForm, "gallery", filemgr.PicPhoto, true)
	if len(saved) == 0 {
		http.Error(w, "cannot save files", http.StatusBadRequest)
		return
	}

	urls := make([]string, 0, len(saved))
	for _, name := range saved {
		urls = append(urls, "/static/residencepic/photo/"+name)
	}

	update := bson.M{
		"$push": bson.M{"gallery": bson.M{"$each": urls}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, uerr := db.ResidencesCollection.UpdateOne(ctx, bson.M{"residenceid": id}, update)
	if uerr != nil {
		http.Error(w, "Failed to update residence", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Residence not found", http.StatusNotFound)
		return
	}

	invalidateListCache()
	go mq.Emit(globals.Ctx, "residence-updated", models.Index{EntityType: "residence", EntityId: id, Method: "PUT"})

	resp := utils.M{"success": true, "gallery": urls, "saved": len(urls)}
	if err != nil {
		// partial save: report what landed along with the error
		resp["error"] = err.Error()
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
