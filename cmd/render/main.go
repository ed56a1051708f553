package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/saturnino-fabrica-de-software/memeface/internal/config"
	"github.com/saturnino-fabrica-de-software/memeface/internal/domain"
	"github.com/saturnino-fabrica-de-software/memeface/internal/emotion"
	"github.com/saturnino-fabrica-de-software/memeface/internal/meme"
	"github.com/saturnino-fabrica-de-software/memeface/internal/provider/emotionapi"
	"github.com/saturnino-fabrica-de-software/memeface/internal/render"
	"github.com/saturnino-fabrica-de-software/memeface/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	imagePath := flag.String("image", "", "Input image, - for stdin")
	detectionsPath := flag.String("detections", "", "Emotion API reply (JSON array of faces) to draw")
	locale := flag.String("locale", "", "Caption locale (BCP 47), defaults to DEFAULT_LOCALE")
	outPath := flag.String("out", "", "Output file, stdout when empty")
	catalogDir := flag.String("catalog", "", "Meme catalog directory, overrides CATALOG_DIR")
	fontDir := flag.String("fonts", "", "Caption font directory, overrides FONT_DIR")
	flag.Parse()

	if *imagePath == "" || *detectionsPath == "" {
		flag.Usage()
		return fmt.Errorf("-image and -detections are required")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *catalogDir != "" {
		cfg.CatalogDir = *catalogDir
	}
	if *fontDir != "" {
		cfg.FontDir = *fontDir
	}

	img, err := readInput(*imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	reply, err := os.ReadFile(*detectionsPath)
	if err != nil {
		return fmt.Errorf("failed to read detections: %w", err)
	}
	faces, err := emotionapi.ParseFaces(reply)
	if err != nil {
		return fmt.Errorf("failed to parse detections: %w", err)
	}

	catalog, err := meme.OpenCatalog(cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("failed to load meme catalog: %w", err)
	}
	fonts, err := render.OpenFontDir(cfg.FontDir)
	if err != nil {
		return fmt.Errorf("failed to load fonts: %w", err)
	}
	compositor, err := render.NewCompositor(render.Options{
		DefaultMIMEType: cfg.OutputMimeType,
		JPEGQuality:     cfg.JPEGQuality,
		Fonts:           fonts,
	})
	if err != nil {
		return fmt.Errorf("failed to create compositor: %w", err)
	}

	svc := service.NewEmotionService(
		recordedDetector{faces: faces},
		emotion.NewSelector(cfg.EmotionPriority),
		meme.NewResolver(catalog),
		compositor,
	)

	result, err := svc.Render(context.Background(), service.RenderRequest{
		Image:  img,
		Locale: meme.ParseLocale("", *locale, cfg.DefaultLanguage()),
	})
	if err != nil {
		return err
	}

	if err := writeOutput(*outPath, result.Image.Bytes); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	log.Printf("drew %d face(s) [%s] as %s", len(result.Emotions), strings.Join(result.Emotions, ","), result.Image.MimeType)
	return nil
}

// recordedDetector replays a detection reply read from disk
type recordedDetector struct {
	faces []domain.Face
}

func (d recordedDetector) Name() string {
	return "file"
}

func (d recordedDetector) DetectEmotions(context.Context, []byte, string) ([]domain.Face, error) {
	return d.faces, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
