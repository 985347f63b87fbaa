package console

import (
	"bytes"
	"context"

	"github.com/nyacdn/cdnctl/internal/api"
)

// AdditionalFileFormSession edits additional files. Create uploads metadata
// and content in one multipart call; update patches the metadata and issues a
// separate replace call only when the content was actually changed from its
// initial state.
type AdditionalFileFormSession struct {
	*FormSession[api.AdditionalFileInput]
}

func NewAdditionalFileFormSession(client *api.Client, notify Notifier, owner Invalidator) *AdditionalFileFormSession {
	s := &AdditionalFileFormSession{}

	hooks := FormHooks[api.AdditionalFileInput]{
		Fetch: func(ctx context.Context, id int64) (api.AdditionalFileInput, error) {
			f, err := client.GetAdditionalFile(ctx, id)
			if err != nil {
				return api.AdditionalFileInput{}, err
			}
			// Content is never returned by the backend; it starts empty and
			// is only set when the user picks a replacement.
			return api.AdditionalFileInput{
				AdditionalFileInfo: api.AdditionalFileInfo{Name: f.Name, Filename: f.Filename},
			}, nil
		},
		Create: func(ctx context.Context, input api.AdditionalFileInput) (SubmitResult, error) {
			f, err := client.CreateAdditionalFile(ctx, input)
			if err != nil {
				return SubmitResult{}, err
			}
			return SubmitResult{ID: f.ID, Label: f.Name}, nil
		},
		Update: func(ctx context.Context, id int64, input api.AdditionalFileInput) (SubmitResult, error) {
			f, err := client.UpdateAdditionalFileInfo(ctx, id, input.AdditionalFileInfo)
			if err != nil {
				return SubmitResult{}, err
			}
			if s.contentChanged(input) {
				if _, err := client.ReplaceAdditionalFile(ctx, id, input.Content); err != nil {
					return SubmitResult{}, err
				}
			}
			return SubmitResult{ID: f.ID, Label: f.Name}, nil
		},
	}

	s.FormSession = NewFormSession("additional file", hooks, notify, owner)
	return s
}

// contentChanged compares the submitted content against the session's
// initial value.
func (s *AdditionalFileFormSession) contentChanged(input api.AdditionalFileInput) bool {
	initial := s.InitialValues().Content
	if input.Content == nil {
		return false
	}
	return !bytes.Equal(initial, input.Content)
}
