package database

import (
	"context"
	"fmt"

	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/internal/repository"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

type seedBook struct {
	Title   string
	Price   float64
	GenreID string
	Authors []string
}

var seedGenres = []model.Genre{
	{ID: "novel", Name: "Novel"},
	{ID: "history", Name: "History"},
	{ID: "mystery", Name: "Mystery"},
	{ID: "scifi", Name: "Science Fiction"},
	{ID: "memoir", Name: "Memoir"},
}

var seedAuthors = []model.Author{
	{FirstName: "Jane", LastName: "Austen"},
	{FirstName: "Agatha", LastName: "Christie"},
	{FirstName: "Ursula", LastName: "Le Guin"},
	{FirstName: "Mary", LastName: "Beard"},
	{FirstName: "Maya", LastName: "Angelou"},
	{FirstName: "Neil", LastName: "Gaiman"},
	{FirstName: "Terry", LastName: "Pratchett"},
}

var seedBooks = []seedBook{
	{"Pride and Prejudice", 6.50, "novel", []string{"Jane Austen"}},
	{"Emma", 7.25, "novel", []string{"Jane Austen"}},
	{"Persuasion", 5.99, "novel", []string{"Jane Austen"}},
	{"Murder on the Orient Express", 9.99, "mystery", []string{"Agatha Christie"}},
	{"And Then There Were None", 8.75, "mystery", []string{"Agatha Christie"}},
	{"The Left Hand of Darkness", 12.00, "scifi", []string{"Ursula Le Guin"}},
	{"The Dispossessed", 14.50, "scifi", []string{"Ursula Le Guin"}},
	{"SPQR", 18.00, "history", []string{"Mary Beard"}},
	{"Women & Power", 11.95, "history", []string{"Mary Beard"}},
	{"I Know Why the Caged Bird Sings", 10.50, "memoir", []string{"Maya Angelou"}},
	{"Good Omens", 13.99, "scifi", []string{"Neil Gaiman", "Terry Pratchett"}},
	{"American Gods", 16.25, "scifi", []string{"Neil Gaiman"}},
}

// SeedCatalog fills an empty catalog with sample genres, authors and books.
// A catalog that already has genres is left alone.
func SeedCatalog(ctx context.Context, factory repository.CatalogFactory) error {
	cat := factory.Open()

	existing, err := cat.Genres.Count(ctx)
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	for i := range seedGenres {
		g := seedGenres[i]
		cat.Genres.Insert(&g)
	}
	for i := range seedAuthors {
		a := seedAuthors[i]
		cat.Authors.Insert(&a)
	}
	if err := cat.Save(ctx); err != nil {
		return fmt.Errorf("seed genres and authors: %w", err)
	}

	authors, err := cat.Authors.List(ctx, query.Options[model.Author]{})
	if err != nil {
		return err
	}
	byName := make(map[string]uint, len(authors.Items))
	for _, a := range authors.Items {
		byName[a.FullName()] = a.ID
	}

	for _, sb := range seedBooks {
		ids := make([]uint, 0, len(sb.Authors))
		for _, name := range sb.Authors {
			id, ok := byName[name]
			if !ok {
				return fmt.Errorf("seed book %q: unknown author %q", sb.Title, name)
			}
			ids = append(ids, id)
		}
		book := &model.Book{Title: sb.Title, Price: sb.Price, GenreID: sb.GenreID}
		cat.LoadNewBookAuthors(book, ids)
		cat.Books.Insert(book)
	}
	if err := cat.Save(ctx); err != nil {
		return fmt.Errorf("seed books: %w", err)
	}
	return nil
}
