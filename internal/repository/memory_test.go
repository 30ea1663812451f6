package repository

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messageapi/internal/domain"
)

func TestCreateAndListAllKeepsCreationOrder(t *testing.T) {
	store := NewMemoryStore()

	var created []string
	for i := 0; i < 5; i++ {
		msg, err := store.Create(fmt.Sprintf("user%d", i), fmt.Sprintf("Message %d", i), "")
		require.NoError(t, err)
		created = append(created, msg.ID)
	}

	messages, total, err := store.ListAll(0, 100)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, messages, 5)

	for i, msg := range messages {
		assert.Equal(t, created[i], msg.ID)
		assert.Equal(t, domain.StatusUnread, msg.Status)
	}
}

func TestCreateValidation(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Create("", "Hello", "")
	assert.ErrorIs(t, err, domain.ErrEmptyRecipient)

	_, err = store.Create("user", "", "")
	assert.ErrorIs(t, err, domain.ErrEmptyContent)

	// Неудачные вызовы ничего не сохраняют
	_, total, err := store.ListAll(0, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestCreateReturnsIndependentCopy(t *testing.T) {
	store := NewMemoryStore()

	msg, err := store.Create("willie", "Winter is coming!", "jon")
	require.NoError(t, err)

	// Портим копию — оригинал в хранилище не должен измениться
	msg.Content = "изменено снаружи"
	msg.Status = domain.StatusRead

	stored, err := store.GetByID(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Winter is coming!", stored.Content)
	assert.Equal(t, domain.StatusUnread, stored.Status)
}

func TestGetByIDNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetByID("deadbeef-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestFetchUnreadDrainsOnce(t *testing.T) {
	store := NewMemoryStore()

	for i := 0; i < 3; i++ {
		_, err := store.Create("willie", fmt.Sprintf("Message %d", i+1), "")
		require.NoError(t, err)
	}

	// Первый вызов забирает всё и помечает прочитанным
	first, err := store.FetchUnread("willie")
	require.NoError(t, err)
	require.Len(t, first, 3)
	for _, msg := range first {
		assert.Equal(t, domain.StatusRead, msg.Status)
	}

	// Повторный вызов — пусто, но не ошибка
	second, err := store.FetchUnread("willie")
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestFetchUnreadUnknownRecipient(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.FetchUnread("nobody")
	assert.ErrorIs(t, err, ErrRecipientNotFound)
}

func TestFetchUnreadKeepsMessagesInHistory(t *testing.T) {
	store := NewMemoryStore()

	created, err := store.Create("bob", "hi", "alice")
	require.NoError(t, err)

	fetched, err := store.FetchUnread("bob")
	require.NoError(t, err)
	require.Len(t, fetched, 1)

	// Сообщение осталось в истории со статусом read
	messages, total, err := store.ListByRecipient("bob", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, messages, 1)
	assert.Equal(t, created.ID, messages[0].ID)
	assert.Equal(t, domain.StatusRead, messages[0].Status)
}

func TestListAllPaginationBoundaries(t *testing.T) {
	store := NewMemoryStore()

	for i := 0; i < 4; i++ {
		_, err := store.Create("user", fmt.Sprintf("Message %d", i), "")
		require.NoError(t, err)
	}

	// Смещение ровно на границе — пустая страница и корректный total
	messages, total, err := store.ListAll(4, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Empty(t, messages)

	// Смещение далеко за границей
	messages, total, err = store.ListAll(100, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Empty(t, messages)

	// Частичная последняя страница
	messages, total, err = store.ListAll(2, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, messages, 2)
}

func TestListAllInvalidPagination(t *testing.T) {
	store := NewMemoryStore()

	_, _, err := store.ListAll(-1, 10)
	assert.ErrorIs(t, err, ErrInvalidPagination)

	_, _, err = store.ListAll(0, 0)
	assert.ErrorIs(t, err, ErrInvalidPagination)

	_, _, err = store.ListAll(0, -5)
	assert.ErrorIs(t, err, ErrInvalidPagination)
}

func TestListByRecipientFilters(t *testing.T) {
	store := NewMemoryStore()

	for i := 0; i < 3; i++ {
		_, err := store.Create("willie", fmt.Sprintf("Для Вилли %d", i), "")
		require.NoError(t, err)
	}
	_, err := store.Create("batman", "Для Бэтмена", "")
	require.NoError(t, err)

	messages, total, err := store.ListByRecipient("willie", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, messages, 3)
	for _, msg := range messages {
		assert.Equal(t, "willie", msg.Recipient)
	}

	_, _, err = store.ListByRecipient("nobody", 0, 10)
	assert.ErrorIs(t, err, ErrRecipientNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := NewMemoryStore()

	msg, err := store.Create("user", "Hello", "")
	require.NoError(t, err)

	deleted, err := store.Delete(msg.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Повторное удаление — не ошибка, просто false
	deleted, err = store.Delete(msg.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteManySkipsMissing(t *testing.T) {
	store := NewMemoryStore()

	a, err := store.Create("user", "a", "")
	require.NoError(t, err)
	c, err := store.Create("user", "c", "")
	require.NoError(t, err)

	missing := "11111111-2222-3333-4444-555555555555"

	// Порядок результата повторяет порядок входного списка
	deleted, err := store.DeleteMany([]string{a.ID, missing, c.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, c.ID}, deleted)
}

func TestDeleteManyRemovesEmptyRecipient(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.Create("carol", "раз", "")
	require.NoError(t, err)
	second, err := store.Create("carol", "два", "")
	require.NoError(t, err)

	_, err = store.DeleteMany([]string{first.ID, second.ID})
	require.NoError(t, err)

	recipients, err := store.Recipients()
	require.NoError(t, err)
	assert.NotContains(t, recipients, "carol")
}

func TestRecipientsRecomputedFromLiveState(t *testing.T) {
	store := NewMemoryStore()

	recipients, err := store.Recipients()
	require.NoError(t, err)
	assert.Empty(t, recipients)

	msg, err := store.Create("willie", "Hello", "")
	require.NoError(t, err)
	_, err = store.Create("batman", "Hello", "")
	require.NoError(t, err)

	recipients, err = store.Recipients()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"willie", "batman"}, recipients)

	// После удаления последнего сообщения получатель исчезает
	_, err = store.Delete(msg.ID)
	require.NoError(t, err)

	recipients, err = store.Recipients()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"batman"}, recipients)
}

func TestStatsInvariants(t *testing.T) {
	store := NewMemoryStore()

	recipients := []string{"willie", "spiderman", "batman"}
	for i, r := range recipients {
		for j := 0; j <= i; j++ {
			_, err := store.Create(r, "Important Message", "")
			require.NoError(t, err)
		}
	}

	// Прочитываем сообщения одного получателя
	_, err := store.FetchUnread("willie")
	require.NoError(t, err)

	stats, err := store.Stats()
	require.NoError(t, err)

	assert.Equal(t, 6, stats.TotalMessages)
	assert.Equal(t, 3, stats.TotalRecipients)
	assert.Equal(t, 1, stats.TotalRead)
	assert.Equal(t, 5, stats.TotalUnread)

	// Инварианты снимка
	assert.Equal(t, stats.TotalMessages, stats.TotalRead+stats.TotalUnread)
	sum := 0
	for _, count := range stats.PerRecipient {
		sum += count
	}
	assert.Equal(t, stats.TotalMessages, sum)
}

func TestClear(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Create("user", "Hello", "")
	require.NoError(t, err)

	require.NoError(t, store.Clear())

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalMessages)
	assert.Equal(t, 0, stats.TotalRecipients)
}

func TestConcurrentCreatesAreNotLost(t *testing.T) {
	store := NewMemoryStore()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := store.Create(fmt.Sprintf("user%d", i), "Hello", "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, n, stats.TotalMessages)
	assert.Equal(t, n, stats.TotalRecipients)
}

func TestConcurrentFetchUnreadReturnsEachMessageOnce(t *testing.T) {
	store := NewMemoryStore()

	const total = 200
	for i := 0; i < total; i++ {
		_, err := store.Create("willie", fmt.Sprintf("Message %d", i), "")
		require.NoError(t, err)
	}

	// Несколько конкурентных «вычерпываний»: каждое сообщение
	// должно достаться ровно одному из них
	const workers = 8
	var mu sync.Mutex
	seen := make(map[string]int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			messages, err := store.FetchUnread("willie")
			assert.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()
			for _, msg := range messages {
				seen[msg.ID]++
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, total)
	for id, count := range seen {
		assert.Equalf(t, 1, count, "сообщение %s возвращено %d раз", id, count)
	}
}
