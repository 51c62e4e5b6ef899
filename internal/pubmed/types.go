package pubmed

// SearchParams describes one E-utilities search.
type SearchParams struct {
	Terms        []string
	MaxResults   int    // defaults to 10
	PubDateStart string // YYYY or YYYY/MM/DD or YYYY-MM-DD
	PubDateEnd   string
	RetStart     int
	Sort         string // defaults to "relevance"
}

// Result is one PubMed record as rendered to the conversation.
type Result struct {
	PMID                 string `json:"pmid"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	Authors              string `json:"authors"`
	JournalCitation      string `json:"journal_citation"`
	JournalCitationShort string `json:"journal_citation_short"`
	JournalCitationFull  string `json:"journal_citation_full"`
	PublicationYear      *int   `json:"publication_year"`
	PublicationDateText  string `json:"publication_date_text"`
	Snippet              string `json:"snippet"`
}

// Payload is the JSON object handed back to the model as the tool result.
// The chat client recognizes this shape inside assistant text.
type Payload struct {
	Source       string   `json:"source"`
	Query        string   `json:"query"`
	TotalResults int      `json:"total_results"`
	PagesTotal   int      `json:"pages_total"`
	NextPageURL  string   `json:"next_page_url"`
	ChunkIDs     []string `json:"chunk_ids"`
	Results      []Result `json:"results"`
}
