// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Validator wraps go-playground/validator and maps failures onto the
// user-facing messages of each field.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator that reports fields by their JSON name.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// fieldMessages maps "request.field.tag" (or "request.field") to a message.
// The request is the struct type name as reported by the validator namespace.
var fieldMessages = map[string]string{
	"categoryRequest.name.required":   "カテゴリ名が不正です",
	"categoryRequest.name":            "カテゴリ名は2文字以上16文字以下で入力してください",
	"postRequest.title.required":      "タイトルを入力してください",
	"postRequest.title":               "タイトルが長すぎます",
	"postRequest.content.required":    "本文を入力してください",
	"postRequest.content":             "本文が長すぎます",
	"postRequest.coverImageKey":       "カバー画像のキーが不正です",
	"postRequest.categoryIds":         "カテゴリの指定が不正です",
	"commentRequest.content.required": "内容が空",
	"commentRequest.content":          "コメントが長すぎます",
	"loginRequest.email":              "メールアドレスが不正です",
	"loginRequest.password":           "パスワードを入力してください",
}

// Check validates s and returns the message of the first failing field,
// or "" if s is valid.
func (v *Validator) Check(s any) string {
	err := v.validate.Struct(s)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return msgInvalidRequest
	}

	fe := verrs[0]
	ns := fe.Namespace()
	if msg, ok := fieldMessages[ns+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := fieldMessages[ns]; ok {
		return msg
	}
	return msgInvalidRequest
}

// categoryRequest is the body of category create and rename.
type categoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=16"`
}

func (c *categoryRequest) normalize() {
	c.Name = strings.TrimSpace(c.Name)
}

// postRequest is the body of post create and update.
type postRequest struct {
	Title         string      `json:"title" validate:"required,max=200"`
	Content       string      `json:"content" validate:"required,max=100000"`
	CoverImageKey *string     `json:"coverImageKey" validate:"omitempty,max=512"`
	CategoryIDs   []uuid.UUID `json:"categoryIds" validate:"max=32"`
}

func (p *postRequest) normalize() {
	p.Title = strings.TrimSpace(p.Title)
	if p.CoverImageKey != nil {
		key := strings.TrimSpace(*p.CoverImageKey)
		if key == "" {
			p.CoverImageKey = nil
		} else {
			p.CoverImageKey = &key
		}
	}
	if p.CategoryIDs == nil {
		p.CategoryIDs = []uuid.UUID{}
	}
}

// commentRequest is the body of comment create.
type commentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (c *commentRequest) normalize() {
	c.Content = strings.TrimSpace(c.Content)
}

// loginRequest is the body of POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (l *loginRequest) normalize() {
	l.Email = strings.TrimSpace(l.Email)
}
