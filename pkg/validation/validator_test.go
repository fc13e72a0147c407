package validation

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

var initOnce sync.Once

type sample struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,role"`
	Risk     string `json:"risk_level" binding:"omitempty,risk"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

func TestToDetails(t *testing.T) {
	t.Parallel()
	initOnce.Do(Init)

	tests := []struct {
		name string
		in   sample
		want map[string]string
	}{
		{"valid", sample{Email: "a@b.co", Password: "longenough", Role: "admin", Risk: "High"}, nil},
		{"missing fields", sample{}, map[string]string{"email": "is required", "password": "is required"}},
		{"bad enum", sample{Email: "a@b.co", Password: "longenough", Role: "root"}, map[string]string{"role": "has an unsupported value"}},
		{"short password", sample{Email: "a@b.co", Password: "short"}, map[string]string{"password": "min length 8"}},
		{"number range", sample{Email: "a@b.co", Password: "longenough", Limit: 500}, map[string]string{"limit": "must be at most 100"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := binding.Validator.ValidateStruct(tt.in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, ToDetails(err))
		})
	}
}

func TestToDetails_DecodeErrors(t *testing.T) {
	t.Parallel()
	assert.Nil(t, ToDetails(nil))

	var v struct {
		Progress int `json:"progress"`
	}
	err := json.Unmarshal([]byte(`{"progress":`), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{"progress":"lots"}`), &v)
	assert.Equal(t, map[string]string{"progress": "must be a int"}, ToDetails(err))

	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("other")))
}
