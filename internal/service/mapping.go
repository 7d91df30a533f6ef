package service

import (
	"github.com/Payphone-Digital/storefront/internal/dto"
	"github.com/Payphone-Digital/storefront/internal/model"
)

func toGenreResponse(g model.Genre) dto.GenreResponse {
	return dto.GenreResponse{ID: g.ID, Name: g.Name}
}

func toAuthorSummary(a model.Author) dto.AuthorSummary {
	return dto.AuthorSummary{ID: a.ID, FullName: a.FullName()}
}

func toBookSummary(b model.Book) dto.BookSummary {
	return dto.BookSummary{ID: b.ID, Title: b.Title, Price: b.Price}
}

func toBookResponse(b model.Book) dto.BookResponse {
	res := dto.BookResponse{
		ID:      b.ID,
		Title:   b.Title,
		Price:   b.Price,
		Genre:   dto.GenreResponse{ID: b.GenreID, Name: b.GenreName()},
		Authors: make([]dto.AuthorSummary, 0, len(b.BookAuthors)),
	}
	for _, ba := range b.BookAuthors {
		if ba.Author != nil {
			res.Authors = append(res.Authors, toAuthorSummary(*ba.Author))
		} else {
			res.Authors = append(res.Authors, dto.AuthorSummary{ID: ba.AuthorID})
		}
	}
	return res
}

func toAuthorResponse(a model.Author) dto.AuthorResponse {
	res := dto.AuthorResponse{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Books:     make([]dto.BookSummary, 0, len(a.BookAuthors)),
	}
	for _, ba := range a.BookAuthors {
		if ba.Book != nil {
			res.Books = append(res.Books, toBookSummary(*ba.Book))
		} else {
			res.Books = append(res.Books, dto.BookSummary{ID: ba.BookID})
		}
	}
	return res
}
