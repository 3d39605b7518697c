package domain

type CartItem struct {
	ID        int64 `db:"id" json:"id"`
	UserID    int64 `db:"user_id" json:"userId"`
	ProductID int64 `db:"product_id" json:"productId"`
	Quantity  int64 `db:"quantity" json:"quantity"`
}

type WishlistItem struct {
	ID        int64 `db:"id" json:"id"`
	UserID    int64 `db:"user_id" json:"userId"`
	ProductID int64 `db:"product_id" json:"productId"`
}
