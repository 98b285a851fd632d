/*
Copyright 2024-2025 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package fakeapi

import (
	"k8s.io/utils/ptr"
)

// Account is a customer or administrator.
type Account struct {
	ID        string
	FirstName string
	LastName  string
	Address   string
	City      string
	State     string
	Country   string
	Postcode  string
	Email     string
	Password  string
	Role      string
}

// Brand is a product brand.
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Category is a product category, optionally nested under a parent.
type Category struct {
	ID       string  `json:"id"`
	ParentID *string `json:"parent_id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
}

// Product is a catalogue entry.
type Product struct {
	ID              string
	Name            string
	Description     string
	Price           float64
	IsLocationOffer bool
	IsRental        bool
	CategoryID      string
	BrandID         string
	ProductImageID  string
}

// Seed is the initial state of a fake API.
type Seed struct {
	Admin      Account
	User       Account
	SecondUser Account
	// Other is an extra customer the admin may edit.
	Other Account

	Brands     []Brand
	ImageIDs   []string
	Categories []Category
	Products   []Product
}

// Accounts lists every seeded account.
func (s Seed) Accounts() []Account {
	return []Account{s.Admin, s.User, s.SecondUser, s.Other}
}

// DefaultSeed mirrors the demo data of the public toolshop.
func DefaultSeed() Seed {
	return Seed{
		Admin: Account{
			ID: "01admin", FirstName: "John", LastName: "Doe", Email: "admin@practicesoftwaretesting.com",
			Password: "welcome01", Role: "admin", Address: "Test street 98", City: "Vienna", Country: "Austria",
		},
		User: Account{
			ID: "01customer", FirstName: "Jane", LastName: "Doe", Email: "customer@practicesoftwaretesting.com",
			Password: "welcome01", Role: "user", Address: "Test street 98", City: "Vienna", Country: "Austria",
		},
		SecondUser: Account{
			ID: "01customer2", FirstName: "Jack", LastName: "Howe", Email: "customer2@practicesoftwaretesting.com",
			Password: "welcome01", Role: "user", Address: "Test street 654", City: "Utrecht", Country: "The Netherlands",
		},
		Other: Account{
			ID: "01customer3", FirstName: "Bob", LastName: "Smith", Email: "customer3@practicesoftwaretesting.com",
			Password: "pass123", Role: "user", Address: "Test street 1", City: "Vienna", Country: "Austria",
		},
		Brands: []Brand{
			{ID: "1", Name: "ForgeFlex Tools", Slug: "forgeflex-tools"},
			{ID: "2", Name: "MightyCraft Hardware", Slug: "mightycraft-hardware"},
		},
		ImageIDs: []string{"1", "2", "3"},
		Categories: []Category{
			{ID: "1", Name: "Hand Tools", Slug: "hand-tools"},
			{ID: "2", Name: "Power Tools", Slug: "power-tools"},
			{ID: "3", ParentID: ptr.To("1"), Name: "Hammer", Slug: "hammer"},
		},
		Products: []Product{
			{ID: "1", Name: "Combination Pliers", Description: "Pliers", Price: 14.15, CategoryID: "1", BrandID: "1", ProductImageID: "1"},
			{ID: "2", Name: "Claw Hammer", Description: "Hammer", Price: 12.01, CategoryID: "3", BrandID: "2", ProductImageID: "2"},
			{ID: "3", Name: "Sheet Sander", Description: "Sander", Price: 58.48, CategoryID: "2", BrandID: "1", ProductImageID: "3"},
			{ID: "4", Name: "Excavator", Description: "Rental excavator", Price: 136.5, IsRental: true, CategoryID: "2", BrandID: "2", ProductImageID: "3"},
		},
	}
}
