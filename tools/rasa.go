package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// rasaModelsDir is where the bot engine saves trained models, relative to its working directory.
const rasaModelsDir = "models"

// RasaClient drives the bot engine HTTP API.
type RasaClient struct {
	BaseURL string
	Token   string
	// TrainTimeout bounds a training request. Trainings take minutes.
	TrainTimeout time.Duration
}

func NewRasaClient(baseURL, token string) *RasaClient {
	return &RasaClient{
		BaseURL:      strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		Token:        strings.TrimSpace(token),
		TrainTimeout: 30 * time.Minute,
	}
}

func (c *RasaClient) endpoint(p string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if c.Token != "" {
		query.Set("token", c.Token)
	}
	u := c.BaseURL + p
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Train sends the training documents and makes the bot engine load the resulting model.
// It returns the model file name.
func (c *RasaClient) Train(ctx context.Context, payload []byte) (string, error) {
	model, err := c.TrainModel(ctx, payload)
	if err != nil {
		return "", err
	}
	if err := c.LoadModel(ctx, path.Join(rasaModelsDir, model)); err != nil {
		return model, err
	}
	return model, nil
}

// TrainModel posts the YAML training payload and returns the name of the saved model.
func (c *RasaClient) TrainModel(ctx context.Context, payload []byte) (string, error) {
	query := url.Values{"save_to_default_model_directory": {"true"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/model/train", query), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-yaml")

	client := &http.Client{Timeout: c.TrainTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("rasa train error %d: %s", resp.StatusCode, string(body))
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	model := strings.TrimSpace(resp.Header.Get("filename"))
	if model == "" {
		return "", fmt.Errorf("rasa train: no model file name in response")
	}
	return model, nil
}

// LoadModel replaces the model the bot engine serves.
func (c *RasaClient) LoadModel(ctx context.Context, modelFile string) error {
	b, _ := json.Marshal(map[string]any{"model_file": modelFile})

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint("/model", nil), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("rasa load model error %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
