package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"transcript-extractor/internal/dto"
	"transcript-extractor/internal/service"

	"go.uber.org/zap"
)

// TranscriptCreator is the part of the lifecycle controller the importer needs.
type TranscriptCreator interface {
	Create(ctx context.Context, in *dto.CreateTranscriptInput) (*dto.TranscriptResponse, error)
}

// ImportedFile represents an imported transcript in cache
type ImportedFile struct {
	FilePath     string    `json:"file_path"`
	FileHash     string    `json:"file_hash"`
	TranscriptID string    `json:"transcript_id"`
	ImportedAt   time.Time `json:"imported_at"`
}

// CacheData stores information about imported files
type CacheData struct {
	ImportedFiles map[string]ImportedFile `json:"imported_files"` // key: file path
}

// ImportStats summarises one run.
type ImportStats struct {
	Imported int
	Skipped  int
	Rejected int
	Failed   int
	TimedOut int
}

// loadCache loads the cache of imported files
func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		ImportedFiles: make(map[string]ImportedFile),
	}

	data, err := os.ReadFile(cacheFile)
	if errors.Is(err, fs.ErrNotExist) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.ImportedFiles == nil {
		cache.ImportedFiles = make(map[string]ImportedFile)
	}

	return cache, nil
}

// saveCache saves the cache of imported files
func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// calculateFileHash calculates MD5 hash of a file
func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// findTranscripts lists .txt files under dir in lexical order.
func findTranscripts(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), service.AllowedExtension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// importTranscripts creates a record for every new or changed transcript in
// dir. Files whose hash matches the cache are skipped.
func importTranscripts(
	ctx context.Context,
	dir string,
	cacheFile string,
	creator TranscriptCreator,
	logger *zap.Logger,
) (*ImportStats, error) {
	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will import all files", zap.Error(err))
		cache = &CacheData{ImportedFiles: make(map[string]ImportedFile)}
	}

	paths, err := findTranscripts(dir)
	if err != nil {
		return nil, err
	}

	stats := &ImportStats{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			break
		}

		fileHash, err := calculateFileHash(path)
		if err != nil {
			logger.Warn("Failed to calculate file hash, will import anyway", zap.String("path", path), zap.Error(err))
		}

		if cached, exists := cache.ImportedFiles[path]; exists && fileHash != "" {
			if cached.FileHash == fileHash {
				logger.Info("Transcript already imported, skipping",
					zap.String("path", path),
					zap.String("transcript_id", cached.TranscriptID),
				)
				stats.Skipped++
				continue
			}
			logger.Info("Transcript changed, importing again",
				zap.String("path", path),
				zap.String("old_hash", cached.FileHash),
				zap.String("new_hash", fileHash),
			)
		}

		resp, err := importFile(ctx, path, creator)
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			logger.Warn("Transcript rejected", zap.String("path", path), zap.String("reason", verr.Message))
			stats.Rejected++
			continue
		case err != nil:
			logger.Error("Failed to import transcript", zap.String("path", path), zap.Error(err))
			stats.Failed++
			continue
		}

		if resp.Note != "" {
			logger.Warn("Transcript imported without facts", zap.String("path", path), zap.String("note", resp.Note))
			stats.TimedOut++
		} else {
			logger.Info("Transcript imported",
				zap.String("path", path),
				zap.String("transcript_id", resp.ID),
				zap.Int("assets", len(resp.Assets)),
				zap.Int("expenditures", len(resp.Expenditures)),
				zap.Int("income", len(resp.Income)),
			)
		}
		stats.Imported++

		if fileHash != "" {
			cache.ImportedFiles[path] = ImportedFile{
				FilePath:     path,
				FileHash:     fileHash,
				TranscriptID: resp.ID,
				ImportedAt:   time.Now(),
			}
		}
	}

	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	} else {
		logger.Info("Cache saved", zap.Int("imported_files", len(cache.ImportedFiles)))
	}

	return stats, nil
}

func importFile(ctx context.Context, path string, creator TranscriptCreator) (*dto.TranscriptResponse, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat transcript: %w", err)
	}

	name := filepath.Base(path)
	return creator.Create(ctx, &dto.CreateTranscriptInput{
		Title: titleFromFilename(name),
		File: &dto.FileUpload{
			Name:    name,
			Size:    info.Size(),
			Content: file,
		},
	})
}

// titleFromFilename turns "call_with_jack.txt" into "Call With Jack".
func titleFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	title := strings.Join(words, " ")
	if len([]rune(title)) > service.MaxTitleLength {
		title = string([]rune(title)[:service.MaxTitleLength])
	}
	return title
}
