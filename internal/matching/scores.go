package matching

// Path scores.
const (
	ScorePathExact       = 15
	ScorePathNamedParams = 12
	ScorePathWildcard    = 10
)

// ScoreMethod is added when the method matches.
const ScoreMethod = 10
