package request

// StockMovementRequest is signed: a positive quantity adds stock, a negative one removes it.
type StockMovementRequest struct {
	MovementType string `json:"movement_type" binding:"required,oneof=RESTOCK DAMAGE ADJUSTMENT SALE"`
	Quantity     int    `json:"quantity" binding:"required,ne=0"`
	Reason       string `json:"reason" binding:"omitempty,max=500"`
}

type StockListQuery struct {
	Location string `form:"location" binding:"omitempty,max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=200"`
}
