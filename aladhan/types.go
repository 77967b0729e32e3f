package aladhan

import (
	"encoding/json"
	"time"

	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/prayer"
)

// response is the top-level API envelope. On errors the API reports a
// non-200 code and puts a plain string in data, so data is decoded lazily.
type response struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type dayData struct {
	Timings map[string]string `json:"timings"`
	Date    dateInfo          `json:"date"`
	Meta    meta              `json:"meta"`
}

type dateInfo struct {
	Readable string    `json:"readable"`
	Hijri    hijriDate `json:"hijri"`
}

type hijriDate struct {
	Date  string `json:"date"`
	Day   string `json:"day"`
	Month struct {
		En string `json:"en"`
	} `json:"month"`
	Year        string `json:"year"`
	Designation struct {
		Abbreviated string `json:"abbreviated"`
	} `json:"designation"`
}

// format returns "DD MonthName YYYY AH", or "" when incomplete.
func (h hijriDate) format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	abbr := h.Designation.Abbreviated
	if abbr == "" {
		abbr = "AH"
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " " + abbr
}

type meta struct {
	Timezone string `json:"timezone"`
	Method   struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"method"`
}

// Result is one day's schedule for a location.
type Result struct {
	Location common.Location
	// Date is the calendar date that was requested.
	Date     time.Time
	Schedule prayer.Schedule
	// Readable is the API's human date, e.g. "14 Mar 2026".
	Readable string
	Hijri    string
	// Timezone is the IANA zone of the city, when the API reports one.
	Timezone   string
	MethodName string
	FetchedAt  time.Time
}

// Zone loads the city's time zone. It returns nil when unknown.
func (r *Result) Zone() *time.Location {
	if r == nil || r.Timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil
	}
	return loc
}

func (r *Result) clone() *Result {
	c := *r
	c.Schedule = r.Schedule.Clone()
	return &c
}
