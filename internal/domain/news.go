package domain

// Sentiment classifies the tone of a news headline.
type Sentiment int

const (
	SentimentNeutral Sentiment = iota
	SentimentPositive
	SentimentNegative
)

// String returns the string representation of the sentiment.
func (s Sentiment) String() string {
	switch s {
	case SentimentPositive:
		return "positive"
	case SentimentNegative:
		return "negative"
	default:
		return "neutral"
	}
}

// NewsItem is one classified headline about an instrument.
type NewsItem struct {
	Title     string
	Sentiment Sentiment
}
