package storage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// Property photos live in an object store addressed by storage path.
// Public URLs follow the bucket convention
// {ASSETS_BASE_URL}/storage/v1/object/public/properties/{storage_path}
// Configuration via ASSETS_BASE_URL and ASSETS_SERVICE_KEY.

const photoBucket = "properties"

func InitializePhotos() {
	if os.Getenv("ASSETS_BASE_URL") == "" || os.Getenv("ASSETS_SERVICE_KEY") == "" {
		log.Println("Warning: ASSETS_BASE_URL/ASSETS_SERVICE_KEY not set, photo uploads disabled")
	}
}

// PhotoURL builds the public URL for a stored photo. An empty storage
// path returns an empty string so callers can skip missing photos.
func PhotoURL(storagePath string) string {
	if storagePath == "" {
		return ""
	}
	base := strings.TrimRight(os.Getenv("ASSETS_BASE_URL"), "/")
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", base, photoBucket, storagePath)
}

// UploadBase64Photo pushes a base64 image (raw or data URL) into the
// bucket under the given storage path and returns that path, or "" on
// failure.
func UploadBase64Photo(base64Src string, storagePath string) string {
	if base64Src == "" || storagePath == "" {
		fmt.Printf("ERROR: empty photo payload or storage path\n")
		return ""
	}

	payload := base64Src
	contentType := "image/jpeg"
	if i := strings.Index(base64Src, ","); i != -1 {
		// data URL: data:image/png;base64,....
		header := base64Src[:i]
		payload = base64Src[i+1:]
		if j := strings.Index(header, ":"); j != -1 {
			if k := strings.Index(header, ";"); k > j {
				contentType = header[j+1 : k]
			}
		}
	}

	raw, decodeErr := base64.StdEncoding.DecodeString(payload)
	if decodeErr != nil {
		fmt.Printf("ERROR: invalid base64 photo: %v\n", decodeErr)
		return ""
	}

	base := strings.TrimRight(os.Getenv("ASSETS_BASE_URL"), "/")
	key := os.Getenv("ASSETS_SERVICE_KEY")
	if base == "" || key == "" {
		fmt.Printf("ERROR: missing ASSETS_BASE_URL or ASSETS_SERVICE_KEY\n")
		return ""
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", base, photoBucket, storagePath)
	req, reqErr := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(raw))
	if reqErr != nil {
		fmt.Printf("ERROR: building upload request: %v\n", reqErr)
		return ""
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	client := &http.Client{Timeout: 30 * time.Second}
	res, doErr := client.Do(req)
	if doErr != nil {
		fmt.Printf("ERROR: photo upload failed: %v\n", doErr)
		return ""
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		fmt.Printf("ERROR: photo upload returned status %d\n", res.StatusCode)
		return ""
	}

	return storagePath
}

// DeletePhoto removes an object from the bucket. Best-effort; listing
// rows keep only storage paths, so a failed delete just orphans a file.
func DeletePhoto(storagePath string) bool {
	base := strings.TrimRight(os.Getenv("ASSETS_BASE_URL"), "/")
	key := os.Getenv("ASSETS_SERVICE_KEY")
	if base == "" || key == "" || storagePath == "" {
		return false
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", base, photoBucket, storagePath)
	req, reqErr := http.NewRequest(http.MethodDelete, endpoint, nil)
	if reqErr != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+key)

	client := &http.Client{Timeout: 15 * time.Second}
	res, doErr := client.Do(req)
	if doErr != nil {
		return false
	}
	defer res.Body.Close()

	return res.StatusCode >= 200 && res.StatusCode < 300
}
