// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import "encoding/json"

// # Wire Format
//
// The collection is stored as a JSON array using the keys of the original
// browser application, so a list exported from its local storage (key
// "libros") loads unchanged.

// record is the persisted shape of a [Book].
//
// Optional fields are written as null when absent; nota and resenia are
// omitted entirely for unread books.
type record struct {
	Titulo    string  `json:"titulo"`
	Autor     string  `json:"autor"`
	Editorial *string `json:"editorial"`
	Edicion   *string `json:"edicion"`
	Anio      *int    `json:"anio"`
	Idioma    *string `json:"idioma"`
	Leido     bool    `json:"leido"`
	Nota      *int    `json:"nota,omitempty"`
	Resenia   *string `json:"resenia,omitempty"`
}

func encode(books []Book) ([]byte, error) {
	records := make([]record, len(books))
	for i, b := range books {
		records[i] = record{
			Titulo:    b.Title,
			Autor:     b.Author,
			Editorial: b.Publisher,
			Edicion:   b.Edition,
			Anio:      b.Year,
			Idioma:    b.Language,
			Leido:     b.IsRead,
		}
		if b.IsRead {
			records[i].Nota = b.Rating
			records[i].Resenia = b.Review
		}
	}
	return json.Marshal(records)
}

func decode(data []byte) ([]Book, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	books := make([]Book, len(records))
	for i, r := range records {
		books[i] = Book{
			Title:     r.Titulo,
			Author:    r.Autor,
			Publisher: r.Editorial,
			Edition:   r.Edicion,
			Year:      r.Anio,
			Language:  r.Idioma,
			IsRead:    r.Leido,
		}
		if r.Leido {
			books[i].Rating = r.Nota
			books[i].Review = r.Resenia
		}
	}
	return books, nil
}
