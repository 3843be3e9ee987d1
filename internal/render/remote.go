package render

import (
	"context"

	contracts "autotube/internal/contracts/renderer/v0"
	"autotube/internal/ports"
)

// Remote delegates rendering to the HTTP render service. Inputs and output travel as object
// keys in the shared storage. The result is downloaded into the job workspace for upload.
type Remote struct {
	client    Client
	fps       int
	workspace *Workspace
	videoKey  func(jobID string) string
}

func NewRemote(client Client, fps int, ws *Workspace, videoKey func(jobID string) string) *Remote {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Remote{client: client, fps: fps, workspace: ws, videoKey: videoKey}
}

func (r *Remote) Engine() string { return "http" }

func (r *Remote) Render(ctx context.Context, req ports.RenderRequest) (*ports.RenderedVideo, error) {
	spec := contracts.RenderSpec{JobID: req.JobID}
	spec.Inputs.AudioObjectKey = req.AudioKey
	spec.Inputs.ImageObjectKey = req.ImageKey
	spec.Params.FPS = r.fps
	spec.Output.VideoObjectKey = r.videoKey(req.JobID)

	res, err := r.client.Render(ctx, spec)
	if err != nil {
		return nil, err
	}

	dir, err := r.workspace.Dir(req.JobID)
	if err != nil {
		return nil, err
	}
	release := r.workspace.Release(req.JobID)

	paths, err := r.workspace.Materialize(ctx, dir, map[string]string{"video": res.VideoObjectKey})
	if err != nil {
		release()
		return nil, err
	}
	return &ports.RenderedVideo{Path: paths["video"], Release: release}, nil
}
