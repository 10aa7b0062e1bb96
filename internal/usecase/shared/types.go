package shared

type StockFilter struct {
	Location *string
	Limit    int
	Offset   int
}
