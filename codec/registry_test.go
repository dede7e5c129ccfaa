package codec_test

import (
	"errors"
	"testing"

	"github.com/cocosip/go-daubechies/codec"
	_ "github.com/cocosip/go-daubechies/codec/nonstandard"
	_ "github.com/cocosip/go-daubechies/codec/standard"
)

func TestCodecRegistry(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantFound bool
		wantID    uint8
		wantName  string
	}{
		{
			name:      "Get standard by ID",
			key:       "1",
			wantFound: true,
			wantID:    1,
			wantName:  "standard",
		},
		{
			name:      "Get standard by name",
			key:       "standard",
			wantFound: true,
			wantID:    1,
			wantName:  "standard",
		},
		{
			name:      "Get nonstandard by ID",
			key:       "2",
			wantFound: true,
			wantID:    2,
			wantName:  "nonstandard",
		},
		{
			name:      "Get nonstandard by name",
			key:       "nonstandard",
			wantFound: true,
			wantID:    2,
			wantName:  "nonstandard",
		},
		{
			name:      "Get non-existent codec",
			key:       "non-existent",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := codec.Get(tt.key)

			if tt.wantFound {
				if err != nil {
					t.Errorf("Get(%q) unexpected error: %v", tt.key, err)
					return
				}
				if c == nil {
					t.Errorf("Get(%q) returned nil codec", tt.key)
					return
				}
				if c.ID() != tt.wantID {
					t.Errorf("Get(%q).ID() = %d, want %d", tt.key, c.ID(), tt.wantID)
				}
				if c.Name() != tt.wantName {
					t.Errorf("Get(%q).Name() = %q, want %q", tt.key, c.Name(), tt.wantName)
				}
			} else if !errors.Is(err, codec.ErrCodecNotFound) {
				t.Errorf("Get(%q) error = %v, want %v", tt.key, err, codec.ErrCodecNotFound)
			}
		})
	}
}

func TestGetByID(t *testing.T) {
	c, err := codec.GetByID(2)
	if err != nil {
		t.Fatalf("GetByID(2) unexpected error: %v", err)
	}
	if c.Name() != "nonstandard" {
		t.Errorf("GetByID(2).Name() = %q, want %q", c.Name(), "nonstandard")
	}

	if _, err := codec.GetByID(200); !errors.Is(err, codec.ErrCodecNotFound) {
		t.Errorf("GetByID(200) error = %v, want %v", err, codec.ErrCodecNotFound)
	}
}

func TestListCodecs(t *testing.T) {
	codecs := codec.List()

	if len(codecs) != 2 {
		t.Fatalf("List() returned %d codecs, want 2", len(codecs))
	}
	if codecs[0].Name() != "standard" || codecs[1].Name() != "nonstandard" {
		t.Errorf("List() order = [%s %s], want [standard nonstandard]", codecs[0].Name(), codecs[1].Name())
	}
}

func TestRegistryIsolated(t *testing.T) {
	r := codec.NewRegistry()
	if got := r.List(); len(got) != 0 {
		t.Fatalf("new registry lists %d codecs", len(got))
	}

	std, err := codec.Get("standard")
	if err != nil {
		t.Fatal(err)
	}
	r.Register(std)
	r.Register(std)

	if got := r.List(); len(got) != 1 {
		t.Errorf("List() after duplicate Register = %d codecs, want 1", len(got))
	}
	if _, err := r.Get("nonstandard"); !errors.Is(err, codec.ErrCodecNotFound) {
		t.Errorf("Get(nonstandard) on isolated registry error = %v", err)
	}
}
