package main

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

func main() {
	bad := 0
	for i := 0; i < 1000; i++ {
		e := gofakeit.Email()
		if err := is.Email.Validate(e); err != nil {
			bad++
			if bad <= 5 {
				fmt.Println("FAIL:", e, err)
			}
		}
	}
	fmt.Println("bad:", bad, "/1000")
}
