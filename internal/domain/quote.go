package domain

import "time"

// Quote is one entry of the daily rotation.
type Quote struct {
	Text   string
	Author string
}

// Catalog is a fixed, ordered rotation of quotes. It is never mutated after
// construction, so it is safe to share between goroutines.
type Catalog struct {
	quotes []Quote
}

// NewCatalog copies quotes into a catalog. It panics on an empty list since
// selection by day would have nothing to index.
func NewCatalog(quotes []Quote) *Catalog {
	if len(quotes) == 0 {
		panic("domain: catalog must contain at least one quote")
	}

	cp := make([]Quote, len(quotes))
	copy(cp, quotes)

	return &Catalog{quotes: cp}
}

// Len returns the number of quotes in the rotation.
func (c *Catalog) Len() int {
	return len(c.quotes)
}

// At returns the quote at position i modulo the catalog size.
func (c *Catalog) At(i int) Quote {
	n := len(c.quotes)

	return c.quotes[((i%n)+n)%n]
}

// IndexForDate returns the zero-based day of year of t, in t's own location,
// modulo the catalog size.
func (c *Catalog) IndexForDate(t time.Time) int {
	return (t.YearDay() - 1) % len(c.quotes)
}

// ForDate selects the quote of the day. The same calendar date always yields
// the same quote, whatever the time of day.
func (c *Catalog) ForDate(t time.Time) Quote {
	return c.quotes[c.IndexForDate(t)]
}

const (
	marcusAurelius = "Marcus Aurelius"
	seneca         = "Seneca"
	epictetus      = "Epictetus"
)

// DefaultCatalog returns the built-in thirty quote rotation.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Quote{
		{"You have power over your mind - not outside events. Realize this, and you will find strength.", marcusAurelius},
		{"The impediment to action advances action. What stands in the way becomes the way.", marcusAurelius},
		{"We suffer more often in imagination than in reality.", seneca},
		{"It's not what happens to you, but how you react to it that matters.", epictetus},
		{"The best revenge is not being like your enemy.", marcusAurelius},
		{"He who fears death will never do anything worth of a man who is alive.", seneca},
		{"If you are distressed by anything external, the pain is not due to the thing itself, but to your estimate of it; and this you have the power to revoke at any moment.", marcusAurelius},
		{"The happiness of your life depends upon the quality of your thoughts.", marcusAurelius},
		{"How long are you going to wait before you demand the best for yourself?", epictetus},
		{"The first rule is to keep an untroubled spirit. The second is to look things in the face and know them for what they are.", marcusAurelius},
		{"Wealth consists not in having great possessions, but in having few wants.", epictetus},
		{"Difficulties strengthen the mind, as labor does the body.", seneca},
		{"No person has the power to have everything they want, but it is in their power not to want what they don't have.", seneca},
		{"Accept whatever comes to you woven in the pattern of your destiny, for what could more aptly fit your needs?", marcusAurelius},
		{"The key is to keep company only with people who uplift you, whose presence calls forth your best.", epictetus},
		{"If a man knows not to which port he sails, no wind is favorable.", seneca},
		{"You become what you give your attention to.", epictetus},
		{"The whole future lies in uncertainty: live immediately.", seneca},
		{"Waste no more time arguing about what a good man should be. Be one.", marcusAurelius},
		{"He suffers more than necessary, who suffers before it is necessary.", seneca},
		{"First say to yourself what you would be; and then do what you have to do.", epictetus},
		{"The mind that is anxious about future events is miserable.", seneca},
		{"Nothing happens to anybody which he is not fitted by nature to bear.", marcusAurelius},
		{"It is not that we have a short time to live, but that we waste a lot of it.", seneca},
		{"No great thing is created suddenly.", epictetus},
		{"The only way to happiness is to cease worrying about things which are beyond the power of our will.", epictetus},
		{"Begin at once to live, and count each separate day as a separate life.", seneca},
		{"Very little is needed to make a happy life; it is all within yourself, in your way of thinking.", marcusAurelius},
		{"The wise man finds pleasure in water; the virtuous man finds it in a good name.", "Confucius"},
		{"No man is free who is not master of himself.", epictetus},
	})
}
