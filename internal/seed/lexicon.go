// Package seed bootstraps the translation memory with a core en-de
// lexicon so a fresh deployment can serve common phrases before any
// provider tier has been exercised.
package seed

// Phrase is one bilingual lexicon entry. Domain becomes the record's
// domain tag.
type Phrase struct {
	English string
	German  string
	Domain  string
}

// Lexicon returns the built-in en-de phrase list grouped by domain.
func Lexicon() []Phrase {
	return []Phrase{
		// Greetings
		{"hello", "hallo", "greetings"},
		{"hi", "hallo", "greetings"},
		{"good morning", "guten morgen", "greetings"},
		{"good afternoon", "guten tag", "greetings"},
		{"good evening", "guten abend", "greetings"},
		{"good night", "gute nacht", "greetings"},
		{"goodbye", "auf wiedersehen", "greetings"},
		{"bye", "tschüss", "greetings"},
		{"see you later", "bis später", "greetings"},

		// Politeness
		{"please", "bitte", "politeness"},
		{"thank you", "danke", "politeness"},
		{"thank you very much", "vielen dank", "politeness"},
		{"you are welcome", "bitte schön", "politeness"},
		{"excuse me", "entschuldigung", "politeness"},
		{"sorry", "entschuldigung", "politeness"},
		{"pardon", "verzeihung", "politeness"},

		// Questions
		{"how are you", "wie geht es dir", "questions"},
		{"what is your name", "wie heißt du", "questions"},
		{"where are you from", "woher kommst du", "questions"},
		{"how old are you", "wie alt bist du", "questions"},
		{"what time is it", "wie spät ist es", "questions"},
		{"where is", "wo ist", "questions"},
		{"how much", "wie viel", "questions"},
		{"how many", "wie viele", "questions"},
		{"what", "was", "questions"},
		{"when", "wann", "questions"},
		{"where", "wo", "questions"},
		{"why", "warum", "questions"},
		{"how", "wie", "questions"},
		{"who", "wer", "questions"},

		// Responses
		{"yes", "ja", "responses"},
		{"no", "nein", "responses"},
		{"maybe", "vielleicht", "responses"},
		{"i do not know", "ich weiß nicht", "responses"},
		{"i understand", "ich verstehe", "responses"},
		{"i do not understand", "ich verstehe nicht", "responses"},
		{"i speak english", "ich spreche englisch", "responses"},
		{"do you speak english", "sprechen sie englisch", "responses"},
		{"i love you", "ich liebe dich", "responses"},
		{"i like it", "es gefällt mir", "responses"},

		// Emergency
		{"help", "hilfe", "emergency"},
		{"help me", "hilf mir", "emergency"},
		{"call the police", "rufen sie die polizei", "emergency"},
		{"call a doctor", "rufen sie einen arzt", "emergency"},
		{"emergency", "notfall", "emergency"},
		{"hospital", "krankenhaus", "emergency"},
		{"police", "polizei", "emergency"},
		{"fire department", "feuerwehr", "emergency"},

		// Travel
		{"where is the bathroom", "wo ist die toilette", "travel"},
		{"where is the train station", "wo ist der bahnhof", "travel"},
		{"where is the airport", "wo ist der flughafen", "travel"},
		{"where is the hotel", "wo ist das hotel", "travel"},
		{"where is the restaurant", "wo ist das restaurant", "travel"},
		{"left", "links", "travel"},
		{"right", "rechts", "travel"},
		{"straight", "geradeaus", "travel"},
		{"near", "nah", "travel"},
		{"far", "weit", "travel"},

		// Food and drink
		{"water", "wasser", "food"},
		{"food", "essen", "food"},
		{"bread", "brot", "food"},
		{"meat", "fleisch", "food"},
		{"fish", "fisch", "food"},
		{"vegetables", "gemüse", "food"},
		{"fruit", "obst", "food"},
		{"coffee", "kaffee", "food"},
		{"tea", "tee", "food"},
		{"beer", "bier", "food"},
		{"wine", "wein", "food"},
		{"milk", "milch", "food"},
		{"sugar", "zucker", "food"},
		{"salt", "salz", "food"},

		// Numbers
		{"one", "eins", "numbers"},
		{"two", "zwei", "numbers"},
		{"three", "drei", "numbers"},
		{"four", "vier", "numbers"},
		{"five", "fünf", "numbers"},
		{"six", "sechs", "numbers"},
		{"seven", "sieben", "numbers"},
		{"eight", "acht", "numbers"},
		{"nine", "neun", "numbers"},
		{"ten", "zehn", "numbers"},
		{"eleven", "elf", "numbers"},
		{"twelve", "zwölf", "numbers"},
		{"twenty", "zwanzig", "numbers"},
		{"thirty", "dreißig", "numbers"},
		{"forty", "vierzig", "numbers"},
		{"fifty", "fünfzig", "numbers"},
		{"hundred", "hundert", "numbers"},
		{"thousand", "tausend", "numbers"},

		// Verbs
		{"go", "gehen", "verbs"},
		{"come", "kommen", "verbs"},
		{"see", "sehen", "verbs"},
		{"hear", "hören", "verbs"},
		{"speak", "sprechen", "verbs"},
		{"eat", "essen", "verbs"},
		{"drink", "trinken", "verbs"},
		{"sleep", "schlafen", "verbs"},
		{"work", "arbeiten", "verbs"},
		{"study", "studieren", "verbs"},
		{"play", "spielen", "verbs"},
		{"run", "laufen", "verbs"},
		{"buy", "kaufen", "verbs"},
		{"sell", "verkaufen", "verbs"},
		{"give", "geben", "verbs"},
		{"take", "nehmen", "verbs"},

		// Time
		{"today", "heute", "time"},
		{"tomorrow", "morgen", "time"},
		{"yesterday", "gestern", "time"},
		{"now", "jetzt", "time"},
		{"later", "später", "time"},
		{"early", "früh", "time"},
		{"late", "spät", "time"},
		{"morning", "morgen", "time"},
		{"afternoon", "nachmittag", "time"},
		{"evening", "abend", "time"},
		{"night", "nacht", "time"},
		{"monday", "montag", "time"},
		{"tuesday", "dienstag", "time"},
		{"wednesday", "mittwoch", "time"},
		{"thursday", "donnerstag", "time"},
		{"friday", "freitag", "time"},
		{"saturday", "samstag", "time"},
		{"sunday", "sonntag", "time"},
	}
}
