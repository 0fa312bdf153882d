// Package jwt valida los tokens HS256 que emite el servicio de identidad.
// Generate existe para pruebas y tokens de servicio.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles reconocidos por el servicio de reportes.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleAuditor   = "auditor"
)

// ErrEmptySecret el secreto de firma no está configurado.
var ErrEmptySecret = errors.New("jwt: secret vacío")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role permite al middleware RBAC decidir sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"` // "admin" | "bodeguero" | "auditor"
}

// Verifier valida firma, algoritmo, expiración y (si se configuró) emisor.
type Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

// NewVerifier construye el verificador. issuer vacío acepta cualquier emisor.
func NewVerifier(secret, issuer string, leeway time.Duration) (*Verifier, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Verifier{secret: []byte(secret), issuer: issuer, leeway: leeway}, nil
}

// Verify devuelve los claims de un token válido. Sin user_id se usa el subject.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("jwt: token inválido")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}

// Generate genera un token JWT firmado que incluye userID, companyID y role.
func Generate(secret, userID, companyID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
