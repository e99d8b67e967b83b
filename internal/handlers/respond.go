// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxJSONBody caps request bodies of the JSON endpoints.
const maxJSONBody = 1 << 20

// Messages shared by several handlers.
const (
	msgInvalidID      = "不正なIDです"
	msgInvalidRequest = "リクエストの形式が不正です"
	msgPostNotFound   = "投稿が見つかりません"
	msgServerError    = "サーバーエラーが発生しました"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeRaw writes an already encoded JSON body.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// writeError writes {"error": msg}, the shape used by the admin and
// content routes.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeMessage writes {"message": msg}, the shape used by the like and
// comment routes.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// serverError logs err with request context and writes a generic 500 in
// the shape produced by write. The cause never reaches the client.
func serverError(w http.ResponseWriter, r *http.Request, write func(http.ResponseWriter, int, string), op string, err error) {
	slog.Error(op+" failed", "error", err, "method", r.Method, "path", r.URL.Path)
	write(w, http.StatusInternalServerError, msgServerError)
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}
