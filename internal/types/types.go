package types

// Status is one post as returned by the search API. Only the fields the feed
// needs are decoded. Fields are pointers so an absent key can be told apart
// from an empty value.
type Status struct {
	IDStr     *string `json:"id_str"`
	CreatedAt *string `json:"created_at"`
	Text      *string `json:"text"`
	User      *User   `json:"user"`
}

// User is the author block of a Status
type User struct {
	Name       *string `json:"name"`
	ScreenName *string `json:"screen_name"`
}

// Entry is a Status normalized for the feed
type Entry struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}
