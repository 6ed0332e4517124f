package domain

var spanishStopwords = newWordSet(
	"a", "al", "algo", "algunas", "algunos", "ante", "antes", "como", "con", "contra",
	"cual", "cuando", "de", "del", "desde", "donde", "durante", "e", "el", "ella",
	"ellas", "ellos", "en", "entre", "era", "es", "esa", "esas", "ese", "eso",
	"esos", "esta", "estaba", "estas", "este", "esto", "estos", "fue", "ha", "hay",
	"la", "las", "le", "les", "lo", "los", "mas", "me", "mi", "mis",
	"mucho", "muy", "nada", "ni", "no", "nos", "nosotros", "o", "otra", "otro",
	"para", "pero", "poco", "por", "porque", "que", "quien", "se", "sea", "ser",
	"si", "sin", "sobre", "son", "su", "sus", "también", "tambien", "te", "tiene",
	"todo", "todos", "tu", "tus", "un", "una", "unas", "uno", "unos", "usted",
	"y", "ya", "yo",
)

var englishStopwords = newWordSet(
	"a", "about", "after", "all", "also", "am", "an", "and", "any", "are",
	"as", "at", "be", "because", "been", "but", "by", "can", "could", "did",
	"do", "does", "for", "from", "had", "has", "have", "he", "her", "him",
	"his", "how", "i", "if", "in", "into", "is", "it", "its", "just",
	"me", "my", "no", "not", "of", "on", "one", "only", "or", "our",
	"out", "over", "she", "should", "so", "some", "than", "that", "the", "their",
	"them", "then", "there", "these", "they", "this", "to", "too", "up", "us",
	"very", "was", "we", "were", "what", "when", "which", "who", "will", "with",
	"would", "you", "your",
)

type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	out := make(wordSet, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

func (s wordSet) has(word string) bool {
	_, ok := s[word]
	return ok
}

// IsStopword reports whether word is in either built-in stopword set.
func IsStopword(word string) bool {
	return spanishStopwords.has(word) || englishStopwords.has(word)
}
