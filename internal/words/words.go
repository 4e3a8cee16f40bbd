package words

import "math/rand"

// Entry is one corpus item: a target word and four progressively easier
// hints.
type Entry struct {
	Word  string
	Hints []string
}

// Provider hands out random entries. Implementations must be safe for
// concurrent use by many rooms.
type Provider interface {
	Random() Entry
}

// List is an immutable in-memory provider. Draws are uniform with
// replacement, so the same word may repeat across rounds.
type List struct {
	entries []Entry
}

func NewList(entries []Entry) *List {
	return &List{entries: entries}
}

func (l *List) Random() Entry {
	return l.entries[rand.Intn(len(l.entries))]
}

func (l *List) Len() int { return len(l.entries) }

// Default returns the built-in corpus.
func Default() *List {
	return NewList(builtin)
}

var builtin = []Entry{
	{Word: "ELEPHANT", Hints: []string{"Large gray animal", "Has a long trunk", "Weighs several tons", "Lives in Africa and Asia"}},
	{Word: "TELESCOPE", Hints: []string{"Instrument for viewing stars", "Used by astronomers", "Has lenses inside", "Points at the night sky"}},
	{Word: "BUTTERFLY", Hints: []string{"Colorful insect with wings", "Comes from a caterpillar", "Drinks from flowers", "Symbol of transformation"}},
	{Word: "MOUNTAIN", Hints: []string{"Very tall landform", "Often covered in snow", "Climbers scale it", "Higher than a hill"}},
	{Word: "CHOCOLATE", Hints: []string{"Brown sweet treat", "Made from cocoa beans", "Melts in your mouth", "Popular dessert"}},
	{Word: "LIGHTHOUSE", Hints: []string{"Structure by the sea", "Has a bright light", "Guides ships safely", "Tall tower on coast"}},
	{Word: "VOLCANO", Hints: []string{"Mountain with hot lava", "Can erupt suddenly", "Found in Ring of Fire", "Creates molten rock"}},
	{Word: "LIBRARY", Hints: []string{"Building with many books", "Quiet place to study", "Has a librarian", "Free resource for knowledge"}},
	{Word: "PENGUIN", Hints: []string{"Black and white bird", "Cannot fly but swims", "Lives in cold places", "Waddles on ice"}},
	{Word: "PUZZLE", Hints: []string{"Brain teaser game", "Has interlocking pieces", "Need to solve it", "Tests your logic"}},
	{Word: "PIANO", Hints: []string{"Musical instrument", "Has black and white keys", "Makes beautiful sound", "Classical music"}},
	{Word: "FOREST", Hints: []string{"Area with many trees", "Home to wildlife", "Has fresh air", "Can be very dense"}},
	{Word: "CASTLE", Hints: []string{"Medieval structure", "Has towers and walls", "Protected by moat", "Royal residence"}},
	{Word: "COMPASS", Hints: []string{"Navigation tool", "Points north", "Has a magnetic needle", "Used for direction"}},
	{Word: "DIAMOND", Hints: []string{"Precious gemstone", "Very hard and clear", "Sparkles brightly", "Used in jewelry"}},
	{Word: "ANCHOR", Hints: []string{"Heavy metal object", "Holds ships in place", "Dropped into water", "Found on boats"}},
	{Word: "CANDLE", Hints: []string{"Provides light", "Made from wax", "Has a flame", "Smells pleasant"}},
	{Word: "DRAGON", Hints: []string{"Mythical creature", "Breathes fire", "Has wings and scales", "Legendary beast"}},
	{Word: "ECLIPSE", Hints: []string{"Moon blocks sun", "Creates darkness", "Rare celestial event", "Day becomes night"}},
	{Word: "CRYPTOGRAPHY", Hints: []string{"Secures communication", "Uses keys and ciphers", "Protects data", "Fundamental for encryption"}},
	{Word: "ARCHIPELAGO", Hints: []string{"Group of islands", "Separated by water", "Examples: Indonesia, Philippines", "Many islands together"}},
	{Word: "LABYRINTH", Hints: []string{"Complex maze", "Hard to navigate", "Myth of the Minotaur", "Many confusing paths"}},
	{Word: "NEBULA", Hints: []string{"Interstellar cloud", "Gas and dust", "Birthplace of stars", "Colorful space object"}},
	{Word: "ALGORITHM", Hints: []string{"Step-by-step procedure", "Used in computing", "Solves a class of problems", "Powers search engines"}},
	{Word: "PARADOX", Hints: []string{"Contradictory situation", "Challenges logic", "Example: liar statement", "Both true and false?"}},
	{Word: "QUICKSAND", Hints: []string{"Wet loose sand", "Can trap you", "Looks solid but isn't", "Formed near water"}},
	{Word: "OBSIDIAN", Hints: []string{"Volcanic glass", "Dark and shiny", "Used in sharp tools", "Formed from lava cooling fast"}},
	{Word: "CATALYST", Hints: []string{"Speeds up reactions", "Not consumed", "Lower activation energy", "Common in chemistry"}},
	{Word: "HYDRAULICS", Hints: []string{"Uses pressurized fluid", "Transfers force", "Found in brakes and lifts", "Pascal's principle"}},
	{Word: "METEOROLOGY", Hints: []string{"Study of weather", "Forecasts storms", "Uses satellites and radar", "Tracks atmosphere"}},
	{Word: "ASTEROID", Hints: []string{"Space rock", "Orbits the Sun", "Mostly in a belt", "Can cause craters"}},
}
