package storage

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Supabase object storage client for applicant documents (ID scans,
// admission letters, death certificates, photos). Buckets: "documents"
// for raw files, "photos" for recompressed applicant photos.

func UploadDocument(folder string, fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer src.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, src); err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	filename := GenerateUniqueFilename(folder, fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	if err := uploadToSupabase("documents", filename, contentType, buf); err != nil {
		return "", fmt.Errorf("document upload failed: %w", err)
	}

	return publicURL("documents", filename), nil
}

// UploadPhotoAsWebP recompresses an applicant photo to webp before
// uploading, keeping the bucket small. Falls back with an error on
// unsupported formats; the caller decides whether to store raw instead.
func UploadPhotoAsWebP(folder string, fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open photo: %w", err)
	}
	defer src.Close()

	all, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}

	webpData, err := ConvertToWebP(all, defaultWebPOptionsFromEnv())
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(fileHeader.Filename, extOf(fileHeader.Filename))
	filename := GenerateUniqueFilename(folder, base+".webp")

	if err := uploadToSupabase("photos", filename, "image/webp", bytes.NewBuffer(webpData)); err != nil {
		return "", fmt.Errorf("photo upload failed: %w", err)
	}

	return publicURL("photos", filename), nil
}

func extOf(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[i:]
	}
	return ""
}

// ✅ Unique object key
func sanitizeFilename(filename string) string {
	re := regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)
	return re.ReplaceAllString(filename, "_")
}

func GenerateUniqueFilename(folder, originalFilename string) string {
	timestamp := time.Now().Format("20060102")
	uuidStr := uuid.New().String()
	safeFilename := sanitizeFilename(originalFilename)
	return fmt.Sprintf("%s/%s-%s-%s", folder, timestamp, uuidStr, safeFilename)
}

func publicURL(bucket, filename string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		os.Getenv("SUPABASE_PROJECT_URL"),
		bucket,
		url.PathEscape(filename),
	)
}

func uploadToSupabase(bucket, filename, contentType string, data *bytes.Buffer) error {
	supabaseURL := os.Getenv("SUPABASE_PROJECT_URL")
	supabaseKey := os.Getenv("SUPABASE_SERVICE_ROLE_KEY")

	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("SUPABASE_PROJECT_URL or SUPABASE_SERVICE_ROLE_KEY not set")
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", supabaseURL, bucket, filename)

	req, err := http.NewRequest(http.MethodPut, endpoint, data)
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+supabaseKey)
	req.Header.Set("Content-Type", contentType)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// Delete removes a stored object given its public URL. Used when an
// application is force-deleted so documents do not leak in the bucket.
func Delete(fullURL string) error {
	bucket, path, err := extractPath(fullURL)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s",
		os.Getenv("SUPABASE_PROJECT_URL"), bucket, path)

	req, err := http.NewRequest(http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+os.Getenv("SUPABASE_SERVICE_ROLE_KEY"))

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete failed status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func extractPath(fullURL string) (bucket string, path string, err error) {
	u, err := url.Parse(fullURL)
	if err != nil {
		return "", "", err
	}

	parts := strings.SplitN(u.Path, "/object/public/", 2)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("not a Supabase public object url")
	}

	pathParts := strings.SplitN(parts[1], "/", 2)
	if len(pathParts) < 2 {
		return "", "", fmt.Errorf("cannot extract bucket and path")
	}

	return pathParts[0], pathParts[1], nil
}
