// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"image"
	"io"
	"log/slog"
	"net/http"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// maxCoverSize is the largest accepted cover image.
const maxCoverSize = 10 << 20

const (
	msgStorageDisabled = "画像ストレージが設定されていません"
	msgNoFile          = "ファイルが指定されていません"
	msgFileTooLarge    = "ファイルサイズは10MB以下にしてください"
	msgUnsupportedType = "対応していない画像形式です"
)

// coverTypes are the sniffed content types accepted as covers.
var coverTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadCover handles POST /api/admin/uploads/cover-image. The multipart
// field "file" must hold a decodable image. The stored key is derived from
// the bytes, so uploading the same image twice yields the same key.
func (h *Admin) UploadCover(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, http.StatusServiceUnavailable, msgStorageDisabled)
		return
	}

	// Headroom for the multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, maxCoverSize+1<<20)
	if err := r.ParseMultipartForm(maxCoverSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, msgFileTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxCoverSize+1))
	if err != nil {
		serverError(w, r, writeError, "read upload", err)
		return
	}
	if len(data) > maxCoverSize {
		writeError(w, http.StatusBadRequest, msgFileTooLarge)
		return
	}

	contentType, ok := detectImage(data)
	if !ok {
		writeError(w, http.StatusBadRequest, msgUnsupportedType)
		return
	}

	key, err := h.storage.PutCover(r.Context(), data, contentType)
	if err != nil {
		serverError(w, r, writeError, "store cover", err)
		return
	}

	url, err := h.storage.CoverURL(r.Context(), key)
	if err != nil {
		slog.Warn("resolve cover url failed", "error", err, "key", key)
	}

	slog.Info("cover uploaded", "key", key, "type", contentType, "size", len(data))
	writeJSON(w, http.StatusCreated, coverUpload{Key: key, URL: url})
}

// detectImage sniffs the content type and confirms the header decodes.
func detectImage(data []byte) (string, bool) {
	ct := http.DetectContentType(data)
	if !coverTypes[ct] {
		return "", false
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", false
	}
	return ct, true
}
