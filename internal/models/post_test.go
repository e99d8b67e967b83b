// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestPostHasCover(t *testing.T) {
	empty := ""
	key := "private/abc"

	tests := []struct {
		name string
		key  *string
		want bool
	}{
		{name: "nil key", key: nil, want: false},
		{name: "empty key", key: &empty, want: false},
		{name: "set key", key: &key, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{CoverImageKey: tt.key}
			if got := p.HasCover(); got != tt.want {
				t.Errorf("HasCover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubject(t *testing.T) {
	id := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	if s := PostSubject(id); s.Kind != SubjectPost || s.String() != "post:"+id.String() {
		t.Errorf("PostSubject = %+v (%s)", s, s)
	}
	if s := CommentSubject(id); s.Kind != SubjectComment || s.String() != "comment:"+id.String() {
		t.Errorf("CommentSubject = %+v (%s)", s, s)
	}
}
