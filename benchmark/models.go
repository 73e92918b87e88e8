package main

import "time"

type CaptionResponse struct {
	Caption string `json:"caption"`
	Error   string `json:"error"`
}

type BenchCase struct {
	Mode      string
	ImagePath string
	Holiday   string
}

type BenchResult struct {
	Mode     string
	File     string
	Duration time.Duration
	Chars    int
	Err      error
	Size     int64
}

type Agg struct {
	Count      int
	Failed     int
	Total      time.Duration
	TotalBytes int64
}
