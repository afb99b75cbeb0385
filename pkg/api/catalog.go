package api

import "fmt"

// Recipe представляет рецепт из каталога
type Recipe struct {
	ID          ID      `json:"id"`
	Title       string  `json:"title"`
	CuisineType string  `json:"cuisine_type"`
	Difficulty  string  `json:"difficulty,omitempty"`
	AvgRating   float64 `json:"avg_rating"`
	RatingCount int     `json:"rating_count"`
}

// RecipesResponse представляет ответ GET /recipes/
type RecipesResponse struct {
	Recipes []Recipe `json:"recipes"`
}

// Restaurant представляет ресторан из каталога
type Restaurant struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	CuisineType string  `json:"cuisine_type"`
	Address     string  `json:"address,omitempty"`
	RatingAvg   float64 `json:"rating_avg"`
}

// RestaurantsResponse представляет ответ GET /restaurants/
type RestaurantsResponse struct {
	Restaurants []Restaurant `json:"restaurants"`
}

// RatingRequest отправляет оценку рецепта или ресторана
type RatingRequest struct {
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

// Amount - денежная сумма. Django отдает decimal строкой, поэтому
// принимаются и строка, и число; значение хранится как есть.
type Amount string

// UnmarshalJSON принимает как строку, так и число
func (a *Amount) UnmarshalJSON(data []byte) error {
	s, err := scalarString(data)
	if err != nil {
		return fmt.Errorf("failed to decode amount: %w", err)
	}
	*a = Amount(s)
	return nil
}

func (a Amount) String() string {
	if a == "" {
		return "0"
	}
	return string(a)
}

// Location - адрес и контакты ресторана или магазина
type Location struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Postal  string `json:"postal,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	Hours   string `json:"hours,omitempty"`
}

// RecipeRating - отзыв к рецепту
type RecipeRating struct {
	ID        ID     `json:"id"`
	UserEmail string `json:"user_email"`
	Comment   string `json:"comment,omitempty"`
	Rating    int    `json:"rating"`
}

// RecipeDetail представляет ответ GET /recipes/{id}/.
// Ingredients и Instructions разделены переводом строки, DietaryTags - запятой.
type RecipeDetail struct {
	Recipe
	Description     string         `json:"description"`
	Ingredients     string         `json:"ingredients"`
	Instructions    string         `json:"instructions"`
	DietaryTags     string         `json:"dietary_tags"`
	AuthorName      string         `json:"author_name"`
	AuthorEmail     string         `json:"author_email"`
	RecipeImage     string         `json:"recipe_image,omitempty"`
	RecipeVideo     string         `json:"recipe_video,omitempty"`
	PreparationTime int            `json:"preparation_time"`
	CookingTime     int            `json:"cooking_time"`
	Servings        int            `json:"servings"`
	Calories        int            `json:"calories"`
	LikesCount      int            `json:"likes_count"`
	ViewsCount      int            `json:"views_count"`
	UserLiked       bool           `json:"user_liked"`
	Ratings         []RecipeRating `json:"ratings"`
}

// LikeResponse представляет ответ POST /recipes/{id}/like/
type LikeResponse struct {
	Message    string `json:"message,omitempty"`
	Liked      bool   `json:"liked"`
	LikesCount int    `json:"likes_count"`
}

// RestaurantDetail представляет ответ GET /restaurants/{id}/
type RestaurantDetail struct {
	ID              ID        `json:"id"`
	Name            string    `json:"restaurant_name"`
	Description     string    `json:"description"`
	CuisineType     string    `json:"cuisine_type"`
	Location        *Location `json:"restaurant_location,omitempty"`
	RatingAvg       float64   `json:"rating_avg"`
	NumberOfRatings int       `json:"number_of_ratings"`
}

// MenuItem - позиция меню ресторана
type MenuItem struct {
	ID          ID     `json:"id"`
	Name        string `json:"menu_item_name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	DietaryInfo string `json:"dietary_info,omitempty"`
	Price       Amount `json:"price"`
	IsAvailable bool   `json:"is_available"`
}

// MenuResponse представляет ответ GET /restaurants/{id}/menu/
type MenuResponse struct {
	Menu []MenuItem `json:"menu"`
}

// Store представляет магазин
type Store struct {
	ID              ID        `json:"id"`
	Name            string    `json:"store_name"`
	StoreType       string    `json:"store_type"`
	Location        *Location `json:"store_location,omitempty"`
	RatingAvg       float64   `json:"rating_avg"`
	NumberOfRatings int       `json:"number_of_ratings"`
}

// StoresResponse представляет ответ GET /stores/
type StoresResponse struct {
	Stores []Store `json:"stores"`
}

// OrderItem - позиция заказа
type OrderItem struct {
	ProductID   ID     `json:"product_id"`
	ProductName string `json:"product_name"`
	StoreID     ID     `json:"store_id"`
	StoreName   string `json:"store_name"`
	Price       Amount `json:"price"`
	Quantity    int    `json:"quantity"`
}

// Order представляет заказ текущего пользователя
type Order struct {
	ID              ID          `json:"id"`
	OrderID         string      `json:"order_id"`
	Status          string      `json:"status"`
	StoreName       string      `json:"store_name"`
	DeliveryAddress string      `json:"delivery_address"`
	TotalAmount     Amount      `json:"total_amount"`
	Items           []OrderItem `json:"items"`
}

// OrdersResponse представляет ответ GET /orders/
type OrdersResponse struct {
	Orders []Order `json:"orders"`
}
