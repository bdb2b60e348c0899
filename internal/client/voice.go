// ABOUTME: Voice-model training wrappers
// ABOUTME: Training runs in the platform's batch namespace

package client

import (
	"context"
	"fmt"
	"net/url"
)

// VoiceTraining is the state of a project's voice-model training run.
type VoiceTraining struct {
	State      string  `json:"state"` // "idle" | "training" | "ready" | "failed"
	ModelID    string  `json:"model_id,omitempty"`
	Progress   float64 `json:"progress"`
	SampleCnt  int     `json:"sample_count"`
	StartedAt  string  `json:"started_at,omitempty"`
	FinishedAt string  `json:"finished_at,omitempty"`
	LastError  string  `json:"last_error,omitempty"`
}

// voiceTrainingRequest kicks off a training run.
type voiceTrainingRequest struct {
	SampleSetID string `json:"sample_set_id"`
}

// VoiceTrainingStatus returns the current training state for a project.
func (c *Client) VoiceTrainingStatus(ctx context.Context, projectID string) (*VoiceTraining, error) {
	var vt VoiceTraining
	path := fmt.Sprintf("/api/v1/batch/voice/%s", url.PathEscape(projectID))
	if err := c.get(ctx, path, &vt); err != nil {
		return nil, err
	}
	return &vt, nil
}

// StartVoiceTraining starts a training run over the given sample set.
func (c *Client) StartVoiceTraining(ctx context.Context, projectID, sampleSetID string) error {
	path := fmt.Sprintf("/api/v1/batch/voice/%s/train", url.PathEscape(projectID))
	return c.post(ctx, path, voiceTrainingRequest{SampleSetID: sampleSetID}, nil)
}
