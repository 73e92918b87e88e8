package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

const (
	modeImage        = "image"
	modeImageHoliday = "image+holiday"
	modeHoliday      = "holiday"
)

var (
	backendEndpoint = flag.String("endpoint", "http://localhost:3000/api/generate", "generate endpoint")
	dataPath        = flag.String("data", filepath.Join(".", "data"), "directory with images")
	concurrency     = flag.Int("concurrency", 2, "parallel requests")
	holidays        = []string{"Christmas", "Halloween", "Summer Fun"}
	imageExts       = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)

func main() {
	flag.Parse()
	ctx := context.Background()

	cases := buildCases(*dataPath)

	var (
		mu      sync.Mutex
		results []BenchResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)
	for _, c := range cases {
		g.Go(func() error {
			res := benchmarkCase(gctx, c)
			if res.Err != nil {
				log.Println("ERR:", res.Mode, res.File, res.Err)
			} else {
				log.Printf("OK %s %s %v", res.Mode, res.File, res.Duration)
			}

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	printMarkdown(results)
}

func buildCases(dir string) []BenchCase {
	var cases []BenchCase
	entries, _ := os.ReadDir(dir)
	for i, e := range entries {
		if e.IsDir() || !slices.Contains(imageExts, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		cases = append(cases,
			BenchCase{Mode: modeImage, ImagePath: path},
			BenchCase{Mode: modeImageHoliday, ImagePath: path, Holiday: holidays[i%len(holidays)]},
		)
	}
	for _, h := range holidays {
		cases = append(cases, BenchCase{Mode: modeHoliday, Holiday: h})
	}
	return cases
}

func benchmarkCase(ctx context.Context, c BenchCase) BenchResult {
	res := BenchResult{Mode: c.Mode, File: filepath.Base(c.ImagePath)}
	if c.ImagePath == "" {
		res.File = c.Holiday
	}

	var image []byte
	if c.ImagePath != "" {
		data, err := os.ReadFile(c.ImagePath)
		if err != nil {
			res.Err = err
			return res
		}
		image = data
		res.Size = int64(len(data))
	}

	start := time.Now()
	caption, err := sendCaption(ctx, image, filepath.Base(c.ImagePath), c.Holiday)
	res.Duration = time.Since(start)
	res.Chars = len(caption)
	res.Err = err
	return res
}

func sendCaption(ctx context.Context, image []byte, fileName, holiday string) (string, error) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	if image != nil {
		fw, err := mw.CreateFormFile("image", fileName)
		if err != nil {
			return "", err
		}
		if _, err := fw.Write(image); err != nil {
			return "", err
		}
	}
	if holiday != "" {
		if err := mw.WriteField("holiday", holiday); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, *backendEndpoint, body)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var out CaptionResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return "", fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status %d: %s", resp.StatusCode, out.Error)
	}
	return out.Caption, nil
}

func aggregate(results []BenchResult) map[string]Agg {
	m := map[string]Agg{}
	for _, r := range results {
		a := m[r.Mode]
		if r.Err != nil {
			a.Failed++
			m[r.Mode] = a
			continue
		}
		a.Count++
		a.TotalBytes += r.Size
		a.Total += r.Duration
		m[r.Mode] = a
	}
	return m
}

func printMarkdown(results []BenchResult) {
	fmt.Print("\n## Benchmark Results\n\n")
	fmt.Println("| Mode | Requests | Failed | Avg Time | Total Time | Avg Image Size |")
	fmt.Println("|------|----------|--------|----------|------------|----------------|")

	agg := aggregate(results)

	var (
		totalCount    int
		totalFailed   int
		totalDuration time.Duration
		totalBytes    int64
	)

	for _, mode := range []string{modeImage, modeImageHoliday, modeHoliday} {
		a, ok := agg[mode]
		if !ok {
			continue
		}
		totalFailed += a.Failed
		if a.Count == 0 {
			fmt.Printf("| %s | 0 | %d | - | - | - |\n", mode, a.Failed)
			continue
		}
		avg := a.Total / time.Duration(a.Count)
		avgSize := a.TotalBytes / int64(a.Count)
		fmt.Printf("| %s | %d | %d | %v | %v | %s |\n",
			mode,
			a.Count,
			a.Failed,
			avg.Round(time.Millisecond),
			a.Total.Round(time.Millisecond),
			humanize.IBytes(uint64(avgSize)),
		)
		totalCount += a.Count
		totalDuration += a.Total
		totalBytes += a.TotalBytes
	}

	if totalCount > 0 {
		mean := totalDuration / time.Duration(totalCount)
		avgSize := totalBytes / int64(totalCount)
		fmt.Printf("| **ALL** | %d | %d | %v | %v | %s |\n",
			totalCount,
			totalFailed,
			mean.Round(time.Millisecond),
			totalDuration.Round(time.Millisecond),
			humanize.IBytes(uint64(avgSize)),
		)
	}
}
