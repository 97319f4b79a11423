// Package order contient le moteur de commande : la conversion atomique
// d'un panier non vide en commande immuable à lignes figées, puis le vidage
// du panier.
//
// Protocole de persistance (Scylla n'a pas de transaction multi-partition) :
//
//	1. écrire la commande en statut "pending" avec toutes ses lignes
//	   (un seul batch loggé) ;
//	2. vider le panier des produits commandés ;
//	3. passer la commande en "confirmed".
//
// Si le process meurt entre 1 et 3, la commande pending est un achat durable
// dont le nettoyage est dû : RecoverPending rejoue 2 et 3 (roll-forward).
// Le client ne peut jamais observer un panier vidé sans commande complète.
package order

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"bocal_back_end/internal/models"
	"bocal_back_end/internal/store"

	"github.com/google/uuid"
)

var (
	ErrAddressRequired    = errors.New("adresse de livraison requise")
	ErrCartEmpty          = errors.New("panier vide")
	ErrCheckoutInProgress = errors.New("un checkout est déjà en cours pour cet utilisateur")
)

// Notifier reçoit la notification best-effort post-confirmation.
// Son échec ne doit jamais remonter jusqu'au client.
type Notifier interface {
	OrderPlaced(o models.Order, userEmail string)
}

type Engine struct {
	Catalog store.CatalogStore
	Carts   store.CartStore
	Orders  store.OrderStore
	Locks   store.CheckoutLocker
	Notify  Notifier // optionnel
}

// Total calcule le montant d'un panier : Σ prix × quantité.
func Total(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Reconcile confronte le panier au catalogue : les produits disparus depuis
// l'ajout sont écartés (et listés dans dropped, jamais une erreur), les
// survivants repartent avec le nom et le prix actuels du catalogue.
func (e *Engine) Reconcile(ctx context.Context, items []models.CartItem) (valid []models.CartItem, dropped []string, err error) {
	for _, item := range items {
		p, err := e.Catalog.GetByID(ctx, item.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			dropped = append(dropped, item.ProductID)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		item.Name = p.Name
		item.Price = p.Price
		item.ImageURL = p.ImageURL
		valid = append(valid, item)
	}
	return valid, dropped, nil
}

// Checkout convertit le panier de l'utilisateur en commande confirmée.
// Rejeté (sans effet de bord) si l'adresse est vide ou si le panier effectif
// est vide ; dans ce cas le panier reste intact et peut être retenté.
func (e *Engine) Checkout(ctx context.Context, userID, userEmail, address string) (models.Order, []string, error) {
	// ✅ 1. Préconditions : adresse non vide
	if strings.TrimSpace(address) == "" {
		return models.Order{}, nil, ErrAddressRequired
	}

	// ✅ 2. Sérialiser par utilisateur — pas de double commande sur
	// double-submit
	ok, err := e.Locks.Acquire(ctx, userID)
	if err != nil {
		return models.Order{}, nil, err
	}
	if !ok {
		return models.Order{}, nil, ErrCheckoutInProgress
	}
	defer e.Locks.Release(ctx, userID)

	// ✅ 3. Lire le panier
	cart, err := e.Carts.Get(ctx, userID)
	if err != nil {
		return models.Order{}, nil, err
	}
	if len(cart) == 0 {
		return models.Order{}, nil, ErrCartEmpty
	}

	// ✅ 4. Réconcilier avec le catalogue — les produits disparus sont
	// écartés en silence, sauf si plus rien ne survit
	valid, dropped, err := e.Reconcile(ctx, cart)
	if err != nil {
		return models.Order{}, nil, err
	}
	if len(valid) == 0 {
		return models.Order{}, dropped, ErrCartEmpty
	}

	// ✅ 5. Calculer le total au prix catalogue de cet instant
	total := Total(valid)

	// ✅ 6. Construire la commande et ses lignes figées
	o := models.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Address:   address,
		Total:     total,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	items := make([]models.OrderItem, 0, len(valid))
	productIDs := make([]string, 0, len(valid))
	for _, item := range valid {
		items = append(items, models.OrderItem{
			OrderID:   o.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
		productIDs = append(productIDs, item.ProductID)
	}

	// ✅ 7. Persister commande + lignes en une écriture
	if err := e.Orders.CreatePending(ctx, o, items); err != nil {
		return models.Order{}, dropped, err
	}

	// ✅ 8. Vider le panier des produits commandés, puis confirmer.
	// Un échec ici laisse la commande pending : l'achat est durable,
	// le balayage de reprise terminera le vidage.
	if err := e.Carts.RemoveProducts(ctx, userID, productIDs); err != nil {
		log.Printf("⚠️ Commande %s : vidage du panier échoué (reprise au prochain balayage): %v", o.ID, err)
		o.Items = items
		return o, dropped, nil
	}
	if err := e.Orders.Confirm(ctx, o); err != nil {
		log.Printf("⚠️ Commande %s : confirmation échouée (reprise au prochain balayage): %v", o.ID, err)
		o.Items = items
		return o, dropped, nil
	}
	o.Status = models.OrderStatusConfirmed
	o.Items = items

	log.Printf("🧾 Commande %s confirmée : %.2f€, %d ligne(s) pour %s", o.ID, o.Total, len(items), userID)

	// ✅ 9. Notification best-effort, jamais bloquante
	if e.Notify != nil {
		go e.Notify.OrderPlaced(o, userEmail)
	}

	return o, dropped, nil
}

// RecoverPending termine les checkouts interrompus : toute commande restée
// pending au-delà du délai de grâce voit son panier re-vidé (idempotent,
// suppression par product_id) puis passe en confirmed.
func (e *Engine) RecoverPending(ctx context.Context, grace time.Duration) (int, error) {
	pending, err := e.Orders.ListPending(ctx, time.Now().UTC().Add(-grace))
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, o := range pending {
		items, err := e.Orders.ItemsByOrder(ctx, o.ID)
		if err != nil {
			log.Printf("❌ Reprise commande %s : lecture des lignes échouée: %v", o.ID, err)
			continue
		}
		productIDs := make([]string, 0, len(items))
		for _, item := range items {
			productIDs = append(productIDs, item.ProductID)
		}
		if err := e.Carts.RemoveProducts(ctx, o.UserID, productIDs); err != nil {
			log.Printf("❌ Reprise commande %s : vidage du panier échoué: %v", o.ID, err)
			continue
		}
		if err := e.Orders.Confirm(ctx, o); err != nil {
			log.Printf("❌ Reprise commande %s : confirmation échouée: %v", o.ID, err)
			continue
		}
		log.Printf("🔁 Commande %s reprise et confirmée", o.ID)
		recovered++
	}
	return recovered, nil
}
