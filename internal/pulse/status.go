package pulse

// Band is the user-facing reading of a PULSE score.
type Band struct {
	Status  string `json:"status"`
	Color   string `json:"color"`
	Message string `json:"message"`
}

// StatusFor maps a score to its band. Scores outside 0-100 read as N/A.
func StatusFor(score int) Band {
	if score < 0 || score > 100 {
		return Band{Status: "N/A", Color: "#6B7280", Message: "Score is out of range"}
	}
	switch {
	case score <= 20:
		return Band{Status: "CRITICAL", Color: "#DC2626", Message: "Immediate action required"}
	case score <= 40:
		return Band{Status: "AT RISK", Color: "#EA580C", Message: "Significant improvements needed"}
	case score <= 60:
		return Band{Status: "DEVELOPING", Color: "#EAB308", Message: "Building momentum"}
	case score <= 80:
		return Band{Status: "STRONG", Color: "#22C55E", Message: "Optimize for excellence"}
	default:
		return Band{Status: "ELITE", Color: "#7C3AED", Message: "Maintain leadership position"}
	}
}
