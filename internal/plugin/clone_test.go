package plugin

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
)

func TestWithClone_RemovesCheckout(t *testing.T) {
	tests := []struct {
		name     string
		cloneErr error
		fnErr    error
		wantErr  bool
		wantCall bool
	}{
		{name: "success", wantCall: true},
		{name: "callback fails", fnErr: errors.New("tool crashed"), wantErr: true, wantCall: true},
		{name: "clone fails", cloneErr: errors.New("auth required"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := setupEnv(t)
			m.cloner.EXPECT().Clone(gomock.Any(), testTarget.URL, testTarget.Ref, gomock.Any()).DoAndReturn(
				func(_ context.Context, _, _, dir string) error {
					if tt.cloneErr != nil {
						return tt.cloneErr
					}
					return os.WriteFile(dir+"/file", []byte("x"), 0o644)
				})

			var seen string
			err := WithClone(context.Background(), m.cloner, m.env.ScratchDir, testTarget, func(dir string) error {
				seen = dir
				return tt.fnErr
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("WithClone() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.fnErr != nil && !errors.Is(err, tt.fnErr) {
				t.Errorf("error = %v, want callback error", err)
			}
			if (seen != "") != tt.wantCall {
				t.Errorf("callback called = %v, want %v", seen != "", tt.wantCall)
			}
			m.assertScratchEmpty(t)
		})
	}
}

func TestPlugin_CloseReleasesOnce(t *testing.T) {
	m := setupEnv(t)
	m.container.EXPECT().Provision(gomock.Any()).Return(nil)
	m.container.EXPECT().Release().Return(errors.New("busy")).Times(1)

	p, err := DefaultRegistry().New(context.Background(), IDGitleaks, testRunContext, m.env)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err == nil {
		t.Error("Close() should surface the release error")
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
