package types

// Table names.
const (
	TableBooks       = "books"
	TableAuthors     = "authors"
	TableAuthorships = "authorships"
	TableCategories  = "categories"
	TableSeries      = "series"
)

// Models lists every persisted model in creation order.
var Models = []*Model{
	BookModel,
	AuthorModel,
	AuthorshipModel,
	CategoryModel,
	SeriesModel,
}
