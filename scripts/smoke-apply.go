package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Использование: go run smoke-apply.go <base-url> <email> [resume-file]")
		fmt.Println("Пример: go run smoke-apply.go http://localhost:8080 jane@example.com cv.pdf")
		os.Exit(1)
	}

	baseURL := os.Args[1]
	email := os.Args[2]

	fmt.Printf("Отправка отклика на %s/apply...\n", baseURL)

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)

	args.Set("firstName", "Smoke")
	args.Set("lastName", "Test")
	args.Set("email", email)
	args.Set("mobile", "+1 555 0100")
	args.Set("primarySkills", "Go")
	args.Set("currentDesignation", "Engineer")
	args.Set("message", "Проверка формы отклика")
	args.Set("usCitizen", "No")
	args.Set("visaSponsorship", "Yes")
	args.Set("jobDetail", "Smoke Test Position")

	agent := fiber.Post(baseURL + "/apply")

	// Резюме необязательно
	if len(os.Args) > 3 {
		data, err := os.ReadFile(os.Args[3])
		if err != nil {
			log.Fatalf("Ошибка чтения файла: %v", err)
		}
		agent.FileData(&fiber.FormFile{
			Fieldname: "attachment",
			Name:      os.Args[3],
			Content:   data,
		})
		fmt.Printf("✓ Резюме %s (%d байт)\n", os.Args[3], len(data))
	}

	code, body, errs := agent.MultipartForm(args).Bytes()
	if len(errs) > 0 {
		log.Fatalf("Ошибка запроса: %v", errs[0])
	}

	fmt.Printf("HTTP %d: %s\n", code, body)
	if code != fiber.StatusOK {
		os.Exit(1)
	}

	fmt.Println("✓ Отклик принят, проверьте почту кандидата и HR")
}
