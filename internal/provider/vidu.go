package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const defaultViduBaseURL = "https://api.vidu.com"

// Vidu serves the task-based media operations: submit a generation
// task, then poll its creations until a file URL appears.
type Vidu struct {
	Key     string
	BaseURL string // defaults to the public API
}

func (v *Vidu) Available() bool { return v != nil && v.Key != "" }

func (v *Vidu) headers() map[string]string {
	return map[string]string{"Authorization": "Token " + v.Key}
}

func (v *Vidu) base() string {
	if v.BaseURL != "" {
		return v.BaseURL
	}
	return defaultViduBaseURL
}

// submit creates a task and polls it to completion, returning the URL
// of the first creation.
func (v *Vidu) submit(ctx context.Context, path string, body map[string]any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	var created struct {
		TaskID string `json:"task_id"`
	}
	if err := doJSON(ctx, http.MethodPost, v.base()+"/ent/v2/"+path, v.headers(), body, &created); err != nil {
		return "", fmt.Errorf("vidu: %w", err)
	}
	if created.TaskID == "" {
		return "", fmt.Errorf("vidu: no task id in response")
	}

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("vidu: %w", ctx.Err())
		case <-time.After(3 * time.Second):
		}
		var st struct {
			State     string `json:"state"`
			Creations []struct {
				URL string `json:"url"`
			} `json:"creations"`
		}
		if err := doJSON(ctx, http.MethodGet, v.base()+"/ent/v2/tasks/"+created.TaskID+"/creations", v.headers(), nil, &st); err != nil {
			return "", fmt.Errorf("vidu: %w", err)
		}
		switch st.State {
		case "success":
			if len(st.Creations) == 0 || st.Creations[0].URL == "" {
				return "", fmt.Errorf("vidu: task %s succeeded without creations", created.TaskID)
			}
			return st.Creations[0].URL, nil
		case "failed":
			return "", fmt.Errorf("vidu: task %s failed", created.TaskID)
		}
	}
}

func (v *Vidu) TextToImage(ctx context.Context, prompt string) (Result, error) {
	u, err := v.submit(ctx, "text2image", map[string]any{"prompt": prompt})
	if err != nil {
		return Result{}, err
	}
	return Result{MediaURL: u, Kind: KindImage}, nil
}

func (v *Vidu) TextToVideo(ctx context.Context, prompt string) (Result, error) {
	u, err := v.submit(ctx, "text2video", map[string]any{"prompt": prompt})
	if err != nil {
		return Result{}, err
	}
	return Result{MediaURL: u, Kind: KindVideo}, nil
}

func (v *Vidu) ImageToVideo(ctx context.Context, imageURL string) (Result, error) {
	u, err := v.submit(ctx, "img2video", map[string]any{"images": []string{imageURL}})
	if err != nil {
		return Result{}, err
	}
	return Result{MediaURL: u, Kind: KindVideo}, nil
}

func (v *Vidu) VideoToVideo(ctx context.Context, videoURL string) (Result, error) {
	u, err := v.submit(ctx, "video2video", map[string]any{"video_url": videoURL})
	if err != nil {
		return Result{}, err
	}
	return Result{MediaURL: u, Kind: KindVideo}, nil
}

func (v *Vidu) Upscale(ctx context.Context, videoURL string) (Result, error) {
	u, err := v.submit(ctx, "upscale", map[string]any{"video_url": videoURL})
	if err != nil {
		return Result{}, err
	}
	return Result{MediaURL: u, Kind: KindVideo}, nil
}

// Act transfers a recorded performance onto the referenced subject.
func (v *Vidu) Act(ctx context.Context, videoURL string) (Result, error) {
	u, err := v.submit(ctx, "perform", map[string]any{"video_url": videoURL})
	if err != nil {
		return Result{}, err
	}
	return Result{MediaURL: u, Kind: KindVideo}, nil
}
