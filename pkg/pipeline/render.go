package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/railyard/pkg/observability"
	"github.com/matzehuels/railyard/pkg/render/nodelink"
)

func toDOT(res *Result, opts Options) string {
	return nodelink.ToDOT(res.Layout, nodelink.Options{Detailed: opts.Detailed})
}

// renderFormat renders one artifact and reports it to the pipeline hooks.
func renderFormat(ctx context.Context, dot, format string) (data []byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	}()

	return nodelink.Render(ctx, dot, nodelink.Format(format))
}
