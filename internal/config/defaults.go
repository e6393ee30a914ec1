package config

const mtaFeedBase = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/nyct%2Fgtfs"

// Default returns the built-in configuration: the 7 at 82nd St and the
// R, E and F at Roosevelt Ave.
func Default() *Config {
	return &Config{
		Env: "development",
		Log: LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Port:      4000,
			RateLimit: 100,
		},
		Refresh: RefreshConfig{
			RefreshIntervalMS:   15000,
			CountdownIntervalMS: 1000,
			TimeoutMS:           10000,
			CacheTTLMS:          5000,
		},
		Feed: FeedConfig{APIKeyHeader: "x-api-key"},
		Lines: []LineConfig{
			{
				ID:            "7-82nd-st",
				Name:          "7 Train at 82nd St – Jackson Heights",
				Source:        mtaFeedBase,
				Format:        "gtfsrt",
				Station:       "709",
				HideThreshold: 8,
				WalkTime:      walkMinutes(10),
			},
			{
				ID:            "r-roosevelt",
				Name:          "R Train at Roosevelt Ave",
				Source:        mtaFeedBase + "-nqrw",
				Format:        "gtfsrt",
				Station:       "G14",
				HideThreshold: 14,
				WalkTime:      walkMinutes(16),
			},
			{
				ID:            "e-roosevelt",
				Name:          "E Train at Roosevelt Ave",
				Source:        mtaFeedBase + "-ace",
				Format:        "gtfsrt",
				Station:       "G14",
				HideThreshold: 14,
				WalkTime:      walkMinutes(16),
			},
			{
				ID:            "f-roosevelt",
				Name:          "F Train at Roosevelt Ave",
				Source:        mtaFeedBase + "-bdfm",
				Format:        "gtfsrt",
				Station:       "G14",
				HideThreshold: 14,
				WalkTime:      walkMinutes(16),
			},
		},
	}
}

func walkMinutes(m float64) *float64 {
	return &m
}
