package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chris-casper/RF-Sim/internal/params"
	"github.com/chris-casper/RF-Sim/internal/pipeline"
)

func writeArtifact(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPublishRun(t *testing.T) {
	workDir := t.TempDir()
	result := &pipeline.Result{
		Site:           &params.SiteParameters{Name: "Hilltop"},
		ImagePath:      writeArtifact(t, workDir, "Hilltop.png", "png"),
		LegendPath:     writeArtifact(t, workDir, "Hilltop_legend.png", "legend"),
		DescriptorPath: writeArtifact(t, workDir, "Hilltop.kml", "<kml/>"),
		ReportPath:     writeArtifact(t, workDir, "Hilltop_report.html", "<html/>"),
	}

	client, err := NewLocalClient(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	ts := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	folder, err := PublishRun(ctx, client, result, ts)
	if err != nil {
		t.Fatalf("PublishRun failed: %v", err)
	}
	if folder != RunFolderPath("Hilltop", ts) {
		t.Errorf("folder = %q", folder)
	}

	for _, name := range []string{"Hilltop.png", "Hilltop_legend.png", "Hilltop.kml", "Hilltop_report.html"} {
		if _, err := client.GetFile(ctx, folder+"/"+name); err != nil {
			t.Errorf("published artifact %s missing: %v", name, err)
		}
	}

	runs, err := client.ListRuns(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0] != folder {
		t.Errorf("runs = %v", runs)
	}
}

func TestPublishRunMissingArtifact(t *testing.T) {
	result := &pipeline.Result{
		Site:           &params.SiteParameters{Name: "Hilltop"},
		ImagePath:      filepath.Join(t.TempDir(), "gone.png"),
		LegendPath:     filepath.Join(t.TempDir(), "gone_legend.png"),
		DescriptorPath: filepath.Join(t.TempDir(), "gone.kml"),
	}

	client, err := NewLocalClient(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := PublishRun(context.Background(), client, result, time.Now()); err == nil {
		t.Error("PublishRun should fail when an artifact file is missing")
	}
}
