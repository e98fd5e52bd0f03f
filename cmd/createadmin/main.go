// Command createadmin promotes an existing user to admin by email.
//
// Usage: createadmin -email user@example.com
package main

import (
	"flag"
	"log"

	"github.com/freshai/freshai-backend/config"
	"github.com/freshai/freshai-backend/models"
)

func main() {
	email := flag.String("email", "", "email of the user to promote")
	flag.Parse()

	if *email == "" {
		log.Fatal("usage: createadmin -email user@example.com")
	}

	if _, err := config.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		log.Fatalf("User with email %s not found", *email)
	}

	if user.IsSuperuser {
		log.Printf("User %s is already an admin", *email)
		return
	}

	if err := db.Model(&user).Update("is_superuser", true).Error; err != nil {
		log.Fatalf("Failed to promote user: %v", err)
	}
	log.Printf("User %s is now an admin", *email)
}
