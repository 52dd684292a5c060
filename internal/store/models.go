package store

import "time"

// Film identifies a title as it appears in point-of-sale exports together
// with the distributor metadata used on settlement reports.
type Film struct {
	ID            int64
	InternalTitle string
	MaccsTitle    string
	Distributor   string
	Country       string
}

// Hall is an auditorium.
type Hall struct {
	ID   int64
	Name string
}

// PlayWeek is a programming week. EndDate is exclusive; the last played day
// is EndDate minus one day.
type PlayWeek struct {
	ID         int64
	WeekNumber int
	StartDate  time.Time
	EndDate    time.Time
}

// DailySale holds one day of sales for a (film, hall) combination.
// HallID zero means the hall is unknown and is stored as NULL.
type DailySale struct {
	ID          int64
	Date        time.Time
	PlayWeekID  int64
	FilmID      int64
	HallID      int64
	Is3D        bool
	AdultCount  int
	ChildCount  int
	FreeAdult   int
	FreeChild   int
	AdultAmount float64
	ChildAmount float64
	TotalCount  int
	TotalAmount float64
	SourceFile  string
	ImportID    string
}

// HistoryRow is a daily sale joined with its film, week, and hall context.
type HistoryRow struct {
	Date        time.Time
	WeekNumber  int
	WeekStart   time.Time
	WeekEnd     time.Time
	FilmTitle   string
	HallName    string
	Is3D        bool
	AdultCount  int
	ChildCount  int
	FreeAdult   int
	FreeChild   int
	AdultAmount float64
	ChildAmount float64
	TotalCount  int
	TotalAmount float64
}

// WeekCombo identifies one settlement unit: a film playing in a hall during
// a play week, with the film metadata the report needs.
type WeekCombo struct {
	PlayWeekID    int64
	WeekNumber    int
	WeekStart     time.Time
	WeekEnd       time.Time
	FilmID        int64
	HallID        int64
	InternalTitle string
	MaccsTitle    string
	Distributor   string
	Country       string
	HallName      string
}

// TicketRange records the first ticket numbers handed out for a combination
// during a play week. End numbers follow from the sold quantities.
type TicketRange struct {
	ID         int64
	PlayWeekID int64
	FilmID     int64
	HallID     int64
	AdultBegin int
	ChildBegin int
}

// AfficheImage is an image blob attached to a stored poster layout.
type AfficheImage struct {
	StartDate time.Time
	SlotType  string
	SlotIndex int
	Filename  string
	Mime      string
	Data      []byte
}

// AfficheRecord is a stored poster layout with its images.
type AfficheRecord struct {
	StartDate time.Time
	StateJSON string
	UpdatedAt time.Time
	Images    []AfficheImage
}
