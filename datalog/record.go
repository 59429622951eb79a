package datalog

import (
	"context"
	"sort"
	"strconv"
	"time"
)

// Record is the metadata kept for every finished video.
type Record struct {
	Subreddit        string `json:"subreddit"`
	ID               string `json:"id"`
	Time             string `json:"time"`
	BackgroundCredit string `json:"background_credit"`
	Title            string `json:"reddit_title"`
	Filename         string `json:"filename"`
}

// NewRecord stamps a record with the current unix time.
func NewRecord(subreddit, filename, title, id, credit string) Record {
	return Record{
		Subreddit:        subreddit,
		ID:               id,
		Time:             strconv.FormatInt(time.Now().Unix(), 10),
		BackgroundCredit: credit,
		Title:            title,
		Filename:         filename,
	}
}

// Store persists video records. Save ignores ids that are already present.
type Store interface {
	Save(ctx context.Context, r Record) error
	Done(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]Record, error)
}

// sortByTime orders records oldest first.
func sortByTime(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, _ := strconv.ParseInt(records[i].Time, 10, 64)
		tj, _ := strconv.ParseInt(records[j].Time, 10, 64)
		return ti < tj
	})
}
