package menu

// Placeholder is the URL of a group item. Group links only expand their section.
const Placeholder = "#"

// Item represents an individual entry in the toolbar menu, which may contain sub-items.
type Item struct {
	// Key is the unique identifier for the menu item within the scope of its parent.
	// Top-level keys also name the section to expand and the slot to override.
	Key string `json:"key"`

	// Label is the display markup of the item (icon, translated text and count suffix).
	Label string `json:"label"`

	// URL is the navigation target, Placeholder for group items.
	URL string `json:"url"`

	// Link holds optional rendering hints for the produced link.
	Link Link `json:"link,omitempty"`

	// Items are the sub-items of this menu item.
	Items []Item `json:"items,omitempty"`

	// Override is pre-rendered content shown below the item link in place of its sub-items.
	// This field is not serialized to JSON.
	Override string `json:"-"`
}

// Link describes how the link of an item is rendered.
type Link struct {
	// Remote asks the client to fetch the target asynchronously instead of navigating.
	Remote bool `json:"remote,omitempty"`
}

// IsGroup reports whether the item is an expandable group.
func (i Item) IsGroup() bool {
	return len(i.Items) > 0
}
