package apifootball

import "encoding/json"

// envelope is the wrapper every v3 endpoint responds with. The errors
// field is an empty array when clean and an object when the provider
// rejected the call, so it stays raw until inspected.
type envelope struct {
	Get        string          `json:"get"`
	Errors     json.RawMessage `json:"errors"`
	Results    int             `json:"results"`
	Paging     paging          `json:"paging"`
	RawItems   json.RawMessage `json:"response"`
}

type paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

type leagueItem struct {
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
		Logo string `json:"logo"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
		Code string `json:"code"`
		Flag string `json:"flag"`
	} `json:"country"`
	Seasons []struct {
		Year    int  `json:"year"`
		Current bool `json:"current"`
	} `json:"seasons"`
}

type teamItem struct {
	Team struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Code    string `json:"code"`
		Country string `json:"country"`
		Founded int    `json:"founded"`
		Logo    string `json:"logo"`
	} `json:"team"`
	Venue struct {
		Name string `json:"name"`
		City string `json:"city"`
	} `json:"venue"`
}

type fixtureItem struct {
	Fixture struct {
		ID       int64  `json:"id"`
		Referee  string `json:"referee"`
		Date     string `json:"date"`
		Venue    struct {
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
		Status struct {
			Short   string `json:"short"`
			Elapsed int    `json:"elapsed"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID     int64  `json:"id"`
		Season int    `json:"season"`
		Round  string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type eventItem struct {
	Time struct {
		Elapsed int `json:"elapsed"`
		Extra   int `json:"extra"`
	} `json:"time"`
	Team struct {
		ID int64 `json:"id"`
	} `json:"team"`
	Player struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"player"`
	Assist struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"assist"`
	Type     string `json:"type"`
	Detail   string `json:"detail"`
	Comments string `json:"comments"`
}

type lineupPlayerItem struct {
	Player struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Number int    `json:"number"`
		Pos    string `json:"pos"`
		Grid   string `json:"grid"`
	} `json:"player"`
}

type lineupItem struct {
	Team struct {
		ID int64 `json:"id"`
	} `json:"team"`
	Coach struct {
		Name string `json:"name"`
	} `json:"coach"`
	Formation   string             `json:"formation"`
	StartXI     []lineupPlayerItem `json:"startXI"`
	Substitutes []lineupPlayerItem `json:"substitutes"`
}

type statisticItem struct {
	Team struct {
		ID int64 `json:"id"`
	} `json:"team"`
	Statistics []struct {
		Type  string `json:"type"`
		Value any    `json:"value"`
	} `json:"statistics"`
}
