package company

import (
	"github.com/finchtui/finch/internal/tui/table"
)

var (
	nameColumn = table.Column{
		Key:        "name",
		Title:      "NAME",
		FlexFactor: 2,
	}
	sectorsColumn = table.Column{
		Key:            "sectors",
		Title:          "SECTORS",
		FlexFactor:     2,
		TruncationFunc: table.TruncateLeft,
	}
	marketCapColumn = table.Column{
		Key:   "market_cap",
		Title: "MKT CAP",
		Width: len("$999.9B"),
	}
	sentimentColumn = table.Column{
		Key:        "sentiment",
		Title:      "SENTIMENT",
		FlexFactor: 1,
	}
	deltaColumn = table.Column{
		Key:   "delta",
		Title: "DELTA",
		Width: len("▼ 99.99%"),
	}
	followingColumn = table.Column{
		Key:   "following",
		Title: "FOLLOWING",
		Width: len("FOLLOWING"),
	}
)
