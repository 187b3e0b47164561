package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/baler/internal/core/domain"
)

func TestNormalizeAssetPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "index.html", "index.html", false},
		{"nested", "css/style.css", "css/style.css", false},
		{"case preserved", "Img/Logo.PNG", "Img/Logo.PNG", false},
		{"empty", "", "", true},
		{"leading slash", "/etc/passwd", "", true},
		{"parent segment", "../secret", "", true},
		{"inner parent segment", "css/../../secret", "", true},
		{"dot segment", "./index.html", "", true},
		{"double slash", "css//style.css", "", true},
		{"backslash", `css\style.css`, "", true},
		{"nul byte", "style\x00.css", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NormalizeAssetPath(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
