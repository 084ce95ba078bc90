package clone

// IntentionFamily groups both intentions in editor menus.
const IntentionFamily = "Create method from usage"

type Intention struct {
	ID     string
	Title  string
	Strict bool
}

var (
	IntentionFull = Intention{
		ID:    "entitygen.clone.full",
		Title: "Create clone full field method",
	}
	IntentionMatched = Intention{
		ID:     "entitygen.clone.matched",
		Title:  "Create clone matched field method",
		Strict: true,
	}
)

func Intentions() []Intention {
	return []Intention{IntentionFull, IntentionMatched}
}

func IntentionByID(id string) (Intention, bool) {
	for _, in := range Intentions() {
		if in.ID == id {
			return in, true
		}
	}
	return Intention{}, false
}
