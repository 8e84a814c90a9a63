package cartsync

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is a short user-facing message, shown as a toast.
type Notification struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Log logrus.FieldLogger
}

func (l LogNotifier) Notify(n Notification) {
	entry := l.Log.WithField("title", n.Title)
	if n.Level == LevelError {
		entry.Warn(n.Message)
		return
	}
	entry.Info(n.Message)
}

type discardNotifier struct{}

func (discardNotifier) Notify(Notification) {}

func addedNotification(name string) Notification {
	return Notification{Level: LevelInfo, Title: "Ditambahkan ke keranjang", Message: name + " berhasil ditambahkan"}
}

func removedNotification() Notification {
	return Notification{Level: LevelInfo, Title: "Dihapus dari keranjang", Message: "Item berhasil dihapus"}
}

func failureNotification(title string, err error) Notification {
	return Notification{Level: LevelError, Title: title, Message: failureMessage(err)}
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, cart.ErrProductUnavailable):
		return "Produk tidak tersedia"
	case errors.Is(err, cart.ErrLineExists):
		return "Produk sudah ada di keranjang"
	case errors.Is(err, cart.ErrNotFound):
		return "Item tidak ditemukan"
	default:
		return "Terjadi kesalahan"
	}
}

const (
	titleAddFailed    = "Gagal menambahkan"
	titleUpdateFailed = "Gagal memperbarui"
	titleRemoveFailed = "Gagal menghapus"
)
