package handler

import (
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/errors"
	"github.com/johnquangdev/meeting-insights/internal/adapter/dto"
)

// maxUploadBytes bounds transcript file uploads.
const maxUploadBytes = 5 << 20 // 5 MiB

// UploadController converts uploaded transcript files to plain text
type UploadController struct {
	logger *zap.Logger
}

// NewUploadController creates a new upload controller
func NewUploadController(logger *zap.Logger) *UploadController {
	return &UploadController{logger: logger}
}

// Upload accepts a multipart transcript file (.txt, .md or .vtt) and
// returns its extracted text, ready to be sent to the analyze endpoint.
func (uc *UploadController) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return HandleError(uc.logger, c, errors.ErrInvalidArgument("missing file field"))
	}

	if fileHeader.Size > maxUploadBytes {
		return HandleError(uc.logger, c, errors.ErrFileTooLarge(maxUploadBytes))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".txt", ".md", ".vtt":
	default:
		return HandleError(uc.logger, c, errors.ErrUnsupportedFileType(ext))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return HandleError(uc.logger, c, errors.ErrInternal(err))
	}
	defer src.Close()

	raw, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return HandleError(uc.logger, c, errors.ErrInternal(err))
	}
	if int64(len(raw)) > maxUploadBytes {
		return HandleError(uc.logger, c, errors.ErrFileTooLarge(maxUploadBytes))
	}

	text := string(raw)
	if ext == ".vtt" {
		text = stripVTT(text)
	}
	text = strings.TrimSpace(text)

	uc.logger.Info("transcript file uploaded",
		zap.String("filename", fileHeader.Filename),
		zap.Int("chars", len(text)),
	)

	return HandleSuccess(uc.logger, c, dto.UploadResponse{
		Filename:   fileHeader.Filename,
		Transcript: text,
		Chars:      len(text),
	})
}

var (
	vttTimingRe = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?\.\d{3}\s+-->\s+`)
	vttCueNumRe = regexp.MustCompile(`^\d+$`)
)

// stripVTT reduces a WebVTT caption file to its cue text. Headers, cue
// numbers, timing lines and inline voice tags are dropped.
func stripVTT(raw string) string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || line == "WEBVTT":
			continue
		case strings.HasPrefix(line, "NOTE") || strings.HasPrefix(line, "STYLE"):
			continue
		case vttTimingRe.MatchString(line):
			continue
		case vttCueNumRe.MatchString(line):
			continue
		}
		// <v Speaker>text</v> becomes "Speaker: text"
		if strings.HasPrefix(line, "<v ") {
			if end := strings.Index(line, ">"); end != -1 {
				speaker := line[3:end]
				text := strings.TrimSuffix(line[end+1:], "</v>")
				line = speaker + ": " + text
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
