package domain

// BuddyType identifies the companion character a member converses with.
type BuddyType string

const (
	BuddyBunny BuddyType = "BUNNY"
	BuddyBear  BuddyType = "BEAR"
	BuddyCat   BuddyType = "CAT"
	BuddyDog   BuddyType = "DOG"
)

// AllBuddyTypes lists the selectable characters in display order.
var AllBuddyTypes = []BuddyType{BuddyBunny, BuddyBear, BuddyCat, BuddyDog}

func (t BuddyType) Emoji() string {
	switch t {
	case BuddyBunny:
		return "🐰"
	case BuddyBear:
		return "🐻"
	case BuddyCat:
		return "🐱"
	case BuddyDog:
		return "🐶"
	}
	return "🙂"
}

func (t BuddyType) Valid() bool {
	for _, bt := range AllBuddyTypes {
		if t == bt {
			return true
		}
	}
	return false
}

// Member is the profile snapshot held in a session.
type Member struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	BuddyType BuddyType `json:"buddyType"`
	BuddyName string    `json:"buddyName"`
}

// MemberPatch is a partial profile update; nil fields are left unchanged.
type MemberPatch struct {
	Nickname  *string
	BuddyType *BuddyType
	BuddyName *string
}

// Apply shallow-merges the patch into m.
func (p MemberPatch) Apply(m *Member) {
	if p.Nickname != nil {
		m.Nickname = *p.Nickname
	}
	if p.BuddyType != nil {
		m.BuddyType = *p.BuddyType
	}
	if p.BuddyName != nil {
		m.BuddyName = *p.BuddyName
	}
}
