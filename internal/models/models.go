package models

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartSlots is the number of pre-seeded cart positions every new user gets.
const CartSlots = 300

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Cart         map[string]int     `bson:"cartData" json:"cartData"`
	CreatedAt    time.Time          `bson:"date" json:"date"`
}

type Product struct {
	ID          int    `bson:"id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Image       string `bson:"image" json:"image"`
	Category    string `bson:"category" json:"category"`
	Price       string `bson:"price" json:"price"`
	Available   *bool  `bson:"available,omitempty" json:"available,omitempty"`
	Description string `bson:"desc,omitempty" json:"desc,omitempty"`
}

// NewCart returns the cart map a fresh user starts with: keys "0".."299",
// every quantity zero. The storefront addresses slots by product id as string.
func NewCart() map[string]int {
	cart := make(map[string]int, CartSlots)
	for i := 0; i < CartSlots; i++ {
		cart[strconv.Itoa(i)] = 0
	}
	return cart
}
