package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/disnaker-asahan/letter-manager/backend/internal/domain"
)

var firstNames = []string{
	"Agus", "Budi", "Dedi", "Eko", "Fajar", "Hendra", "Indra", "Joko", "Rudi", "Yudi",
	"Ani", "Dewi", "Fitri", "Lestari", "Maya", "Nur", "Putri", "Rina", "Sri", "Wati",
}

var lastNames = []string{
	"Siregar", "Nasution", "Lubis", "Harahap", "Simatupang", "Pane", "Tanjung", "Hasibuan",
	"Saragih", "Sinaga", "Pratama", "Santoso", "Wijaya", "Hidayat", "Saputra",
}

// Departments mirrors the organisational units of the office.
var Departments = []string{
	"Sekretariat",
	"Bidang Penempatan dan Perluasan Kerja",
	"Bidang Hubungan Industrial",
	"Bidang Pelatihan dan Produktivitas",
	"Bidang Transmigrasi",
}

func GenerateRandomName() string {
	return firstNames[mrand.Intn(len(firstNames))] + " " + lastNames[mrand.Intn(len(lastNames))]
}

var digits = "0123456789"

func GenerateUsernameFromName(name string) string {
	username := strings.ToLower(strings.ReplaceAll(name, " ", "."))

	digitsLength := mrand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[mrand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomName()
	username := GenerateUsernameFromName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Department:   Departments[mrand.Intn(len(Departments))],
		Role:         domain.RoleStaff,
	}

	return user, nil
}

// GenerateRandomOTP returns a six digit code from a cryptographic source.
func GenerateRandomOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

var subjects = []string{
	"Undangan Rapat Koordinasi",
	"Permohonan Data Tenaga Kerja",
	"Laporan Bulanan Penempatan Tenaga Kerja",
	"Pemberitahuan Pelatihan Kerja",
	"Surat Edaran Upah Minimum",
	"Permohonan Mediasi Perselisihan Hubungan Industrial",
	"Undangan Sosialisasi Program Transmigrasi",
	"Permintaan Narasumber",
}

var counterparties = []string{
	"Pemerintah Kabupaten Asahan",
	"Dinas Tenaga Kerja Provinsi Sumatera Utara",
	"BPJS Ketenagakerjaan Cabang Kisaran",
	"PT Perkebunan Nusantara IV",
	"Kementerian Ketenagakerjaan RI",
	"Serikat Pekerja Kabupaten Asahan",
}

var priorities = []domain.Priority{domain.PriorityRendah, domain.PrioritySedang, domain.PriorityTinggi}

var incomingStatuses = []domain.LetterStatus{domain.StatusDiterima, domain.StatusDisposisi, domain.StatusSelesai}

var outgoingStatuses = []domain.LetterStatus{
	domain.StatusDraft, domain.StatusMenungguPersetujuan, domain.StatusDisetujui, domain.StatusDitolak, domain.StatusDikirim,
}

// GenerateRandomLetterNumber follows the office numbering scheme, e.g. 005/123/DISNAKER/2025.
func GenerateRandomLetterNumber(year int) string {
	return fmt.Sprintf("%03d/%03d/DISNAKER/%d", mrand.Intn(999)+1, mrand.Intn(999)+1, year)
}

func GenerateRandomLetter(createdBy int64) *domain.Letter {
	l := &domain.Letter{
		Subject:      subjects[mrand.Intn(len(subjects))],
		LetterNumber: GenerateRandomLetterNumber(time.Now().Year()),
		Priority:     priorities[mrand.Intn(len(priorities))],
		CreatedBy:    &createdBy,
	}

	office := "Dinas Tenaga Kerja Kabupaten Asahan"
	other := counterparties[mrand.Intn(len(counterparties))]

	if mrand.Intn(2) == 0 {
		l.Type = domain.LetterIncoming
		l.Sender, l.Recipient = other, office
		l.Status = incomingStatuses[mrand.Intn(len(incomingStatuses))]
	} else {
		l.Type = domain.LetterOutgoing
		l.Sender, l.Recipient = office, other
		l.Status = outgoingStatuses[mrand.Intn(len(outgoingStatuses))]
	}
	l.Content = fmt.Sprintf("Dengan hormat, sehubungan dengan %s, bersama ini kami sampaikan hal tersebut untuk ditindaklanjuti.", strings.ToLower(l.Subject))

	return l
}
