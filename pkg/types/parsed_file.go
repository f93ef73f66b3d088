package types

// AuthorName is an author as guessed from a book file.
type AuthorName struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

// ParsedFile is what the ingestion step extracted from one source file,
// ready to be added to the library.
type ParsedFile struct {
	SourcePath    string       `json:"source_path"`
	Title         string       `json:"title" validate:"required"`
	Authors       []AuthorName `json:"authors"`
	PubDate       string       `json:"pub_date"`
	Pages         int64        `json:"pages" validate:"gte=0"`
	BookFileName  string       `json:"book_file_name" validate:"required"`
	CoverFileName string       `json:"cover_file_name"`
}
