package routes

import (
	"net/http"

	"github.com/TastyCheddarAI/GuanacasteRealEstate-sub000/storage"

	"github.com/kataras/iris/v12"
)

type uploadInput struct {
	Data string `json:"data"` // base64 data URL or raw base64
	Path string `json:"path"` // storage path within the bucket
}

// UploadPhoto handles base64 photo upload to the object store and
// returns both the storage path and the derived public URL.
func UploadPhoto(ctx iris.Context) {
	var in uploadInput
	if err := ctx.ReadJSON(&in); err != nil || in.Path == "" {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid payload"})
		return
	}
	path := storage.UploadBase64Photo(in.Data, in.Path)
	if path == "" {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "upload failed"})
		return
	}
	ctx.JSON(iris.Map{"path": path, "url": storage.PhotoURL(path)})
}
